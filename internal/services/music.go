package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// MusicService generates Suno-style music prompts. Genre traits come
// from a fixed lookup, never from the AI, so the BPM and vibe stay
// consistent between runs.
type MusicService struct {
	ai *GeminiService
}

func NewMusicService(ai *GeminiService) *MusicService {
	return &MusicService{ai: ai}
}

// Genres offered in the carousel creator, in menu order.
var Genres = []string{"Modern Phonk", "Lo-Fi Chill", "Cinematic Epic", "Corporate Upbeat", "Pop Energetic", "Minimal Tech"}

// genreTraits maps a genre keyword to its BPM range and vibe tags.
func genreTraits(genre string) (bpmRange, vibe string) {
	bpmRange = "120-128 BPM"
	vibe = "Energetic, Confident"

	switch {
	case strings.Contains(genre, "Lo-Fi"):
		bpmRange, vibe = "80-90 BPM", "Chill, Relaxed, Study"
	case strings.Contains(genre, "Cinematic"):
		bpmRange, vibe = "Varied BPM", "Epic, Orchestral, Building Tension"
	case strings.Contains(genre, "Corporate"):
		bpmRange, vibe = "110-120 BPM", "Inspiring, Clean, Minimal"
	case strings.Contains(genre, "Pop"):
		bpmRange, vibe = "120-130 BPM", "Upbeat, Catchy, Happy"
	case strings.Contains(genre, "Elegant"):
		bpmRange, vibe = "105-115 BPM", "Elegant, Sophisticated, Fashion"
	}
	return
}

// GeneratePrompt builds a music prompt for a product video. Falls back
// to a deterministic string assembled from the genre traits.
func (s *MusicService) GeneratePrompt(ctx context.Context, productContext, genre string) string {
	if genre == "" {
		genre = "Modern Phonk"
	}
	bpmRange, vibe := genreTraits(genre)

	prompt := fmt.Sprintf(`Generate a "Suno AI" music prompt for a product video about: %s.

REQUIREMENTS:
1. Genre: %s
2. Style Tags: Instrumental, No Vocals, High Fidelity, %s.
3. BPM: %s.
4. Length: 30 seconds loopable.

Output a single string formatted for Suno. e.g.: "Modern Phonk, 128 bpm, aggressive bass, instrumental, no vocals, luxury feel"`,
		productContext, genre, vibe, bpmRange)

	text, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("music prompt generation failed, using fallback: %v", err)
		}
		return fmt.Sprintf("%s, %s, Instrumental, No Vocals, %s, High Quality Synthesis.", genre, bpmRange, vibe)
	}
	return text
}
