package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"seiso-backend/internal/models"
)

// Store is the only way callers touch persisted state. Every mutation
// is a full load-modify-save cycle over the aggregate database; the
// mutex serialises those cycles within this process so two handlers
// cannot interleave their read-modify-write windows.
type Store struct {
	mu   sync.Mutex
	blob BlobStore
}

func New(blob BlobStore) *Store {
	return &Store{blob: blob}
}

// Load reads the persisted database. An absent or unreadable blob
// yields a fresh seeded database rather than an error, so a corrupt
// file can never lock the user out of the tool.
func (s *Store) Load(ctx context.Context) *models.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) *models.Database {
	data, err := s.blob.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("store: failed to load blob, starting fresh: %v", err)
		}
		return models.NewDatabase()
	}

	var db models.Database
	if err := json.Unmarshal(data, &db); err != nil {
		log.Printf("store: corrupt blob, starting fresh: %v", err)
		return models.NewDatabase()
	}

	// Older blobs may omit collections entirely.
	if db.Ads == nil {
		db.Ads = []models.AdCampaign{}
	}
	if db.Carousels == nil {
		db.Carousels = []models.SavedCarousel{}
	}
	if db.Videos == nil {
		db.Videos = []models.SavedVideoProject{}
	}
	if db.Planner == nil {
		db.Planner = []models.CalendarEvent{}
	}
	if len(db.ChatHistory) == 0 {
		db.ChatHistory = models.NewDatabase().ChatHistory
	}
	return &db
}

// Save serialises and overwrites the entire blob in one write.
func (s *Store) Save(ctx context.Context, db *models.Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, db)
}

func (s *Store) save(ctx context.Context, db *models.Database) error {
	data, err := json.Marshal(db)
	if err != nil {
		return err
	}
	return s.blob.Save(ctx, data)
}

func (s *Store) update(ctx context.Context, mutate func(*models.Database)) (*models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.load(ctx)
	mutate(db)
	if err := s.save(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// AppendAd adds a campaign to the ads collection.
func (s *Store) AppendAd(ctx context.Context, ad models.AdCampaign) error {
	_, err := s.update(ctx, func(db *models.Database) {
		db.Ads = append(db.Ads, ad)
	})
	return err
}

// AppendCarousel adds a carousel to its collection.
func (s *Store) AppendCarousel(ctx context.Context, c models.SavedCarousel) error {
	_, err := s.update(ctx, func(db *models.Database) {
		db.Carousels = append(db.Carousels, c)
	})
	return err
}

// AppendVideo adds a video project to its collection.
func (s *Store) AppendVideo(ctx context.Context, v models.SavedVideoProject) error {
	_, err := s.update(ctx, func(db *models.Database) {
		db.Videos = append(db.Videos, v)
	})
	return err
}

// UpsertCalendarEvent replaces the stored event with the same ID, or
// appends when no such event exists. Never duplicates an identifier.
func (s *Store) UpsertCalendarEvent(ctx context.Context, event models.CalendarEvent) error {
	_, err := s.update(ctx, func(db *models.Database) {
		for i, existing := range db.Planner {
			if existing.ID == event.ID {
				db.Planner[i] = event
				return
			}
		}
		db.Planner = append(db.Planner, event)
	})
	return err
}

// ReplaceChatHistory overwrites the chat collection wholesale.
func (s *Store) ReplaceChatHistory(ctx context.Context, messages []models.ChatMessage) error {
	_, err := s.update(ctx, func(db *models.Database) {
		db.ChatHistory = messages
	})
	return err
}
