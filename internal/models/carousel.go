package models

import "time"

// SlideRole is the fixed semantic role of a carousel slide.
type SlideRole string

const (
	SlideHook     SlideRole = "hook"
	SlideSolution SlideRole = "solution"
	SlideEdu1     SlideRole = "edu1"
	SlideEdu2     SlideRole = "edu2"
	SlideCTA      SlideRole = "cta"
)

// SlideRoles is the mandatory slide order. Every carousel has exactly
// these five roles, in this order, never reordered.
var SlideRoles = []SlideRole{SlideHook, SlideSolution, SlideEdu1, SlideEdu2, SlideCTA}

// CarouselSlide is one slide of a five-slide carousel. The image prompt
// is produced together with the structure; the image itself is generated
// later, per slide, on demand.
type CarouselSlide struct {
	ID          int       `json:"id"` // 1..5
	Type        SlideRole `json:"type"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	OverlayText string    `json:"overlayText"`
	ImagePrompt string    `json:"imagePrompt"`
	ImageURL    string    `json:"imageUrl"`
}

// SavedCarousel is a persisted carousel project.
type SavedCarousel struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	Slides     []CarouselSlide `json:"slides"`
	SunoPrompt string          `json:"sunoPrompt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// GenerateIdeasRequest asks for candidate educational angles.
type GenerateIdeasRequest struct {
	ProductName string `json:"product_name"`
	Features    string `json:"features"`
}

// GenerateCarouselRequest asks for the full carousel strategy: the
// five-slide structure plus the social caption and music prompt.
type GenerateCarouselRequest struct {
	ProductName string `json:"product_name"`
	Features    string `json:"features"`
	EduFocus    string `json:"edu_focus"`
	MusicGenre  string `json:"music_genre"`
}

// CarouselStrategy is the assembled result of a carousel generation.
type CarouselStrategy struct {
	Slides     []CarouselSlide `json:"slides"`
	SocialCopy string          `json:"social_copy"`
	SunoPrompt string          `json:"suno_prompt"`
}

// SlideImageRequest regenerates one slide's image in isolation.
type SlideImageRequest struct {
	SlideID     int       `json:"slide_id"`
	Role        SlideRole `json:"role"`
	ImagePrompt string    `json:"image_prompt"`
	ImageRef    string    `json:"image_ref,omitempty"`
	Refinement  string    `json:"refinement,omitempty"`
}

// SaveCarouselRequest persists a finished carousel.
type SaveCarouselRequest struct {
	Topic      string          `json:"topic"`
	Slides     []CarouselSlide `json:"slides"`
	SunoPrompt string          `json:"suno_prompt"`
}
