package models

import (
	"strconv"
	"sync/atomic"
	"time"
)

// WelcomeMessage seeds the chat history of a fresh database.
const WelcomeMessage = "¡Hola! Soy tu Planner Estratégico. Veo que tienes campañas activas. ¿En qué trabajamos hoy?"

// Database is the single aggregate every artifact lives in. It is
// loaded and saved wholesale against one keyed blob; there is no
// secondary index or derived cache that could desync.
type Database struct {
	Ads         []AdCampaign        `json:"ads"`
	Carousels   []SavedCarousel     `json:"carousels"`
	Videos      []SavedVideoProject `json:"videos"`
	Planner     []CalendarEvent     `json:"planner"`
	ChatHistory []ChatMessage       `json:"chatHistory"`
}

// NewDatabase returns an empty database seeded with the welcome chat
// message. Used on first access and whenever the stored blob is absent
// or unreadable.
func NewDatabase() *Database {
	return &Database{
		Ads:       []AdCampaign{},
		Carousels: []SavedCarousel{},
		Videos:    []SavedVideoProject{},
		Planner:   []CalendarEvent{},
		ChatHistory: []ChatMessage{
			{ID: "0", Sender: "ai", Text: WelcomeMessage, Timestamp: time.Now()},
		},
	}
}

var idCounter atomic.Int64

// NewID returns an opaque, creation-timestamp-derived identifier.
// A counter suffix keeps IDs distinguishable when two records are
// created within the same millisecond.
func NewID() string {
	ms := time.Now().UnixMilli()
	n := idCounter.Add(1) % 1000
	return strconv.FormatInt(ms*1000+n, 10)
}
