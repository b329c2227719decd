package services

import (
	"context"
	"strings"
	"testing"

	"seiso-backend/internal/models"
)

func orderedSlides() []models.CarouselSlide {
	slides := make([]models.CarouselSlide, len(models.SlideRoles))
	for i, role := range models.SlideRoles {
		slides[i] = models.CarouselSlide{
			ID:          99, // wrong on purpose, repair renumbers
			Type:        role,
			Title:       "Titulo " + string(role),
			Content:     "Contenido",
			OverlayText: "Overlay",
			ImagePrompt: "Prompt de imagen",
			ImageURL:    "https://stale.example/old.png",
		}
	}
	return slides
}

func TestRepairSlides_NormalizesValidOutput(t *testing.T) {
	repaired, ok := repairSlides(orderedSlides())
	if !ok {
		t.Fatal("valid slide set rejected")
	}
	for i, slide := range repaired {
		if slide.ID != i+1 {
			t.Errorf("slide %d: ID = %d, want %d", i, slide.ID, i+1)
		}
		if slide.Type != models.SlideRoles[i] {
			t.Errorf("slide %d: role = %q, want %q", i, slide.Type, models.SlideRoles[i])
		}
		if slide.ImageURL != "" {
			t.Errorf("slide %d: stale image URL kept: %q", i, slide.ImageURL)
		}
	}
}

func TestRepairSlides_RejectsBrokenOutput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]models.CarouselSlide) []models.CarouselSlide
	}{
		{"too few slides", func(s []models.CarouselSlide) []models.CarouselSlide { return s[:4] }},
		{"too many slides", func(s []models.CarouselSlide) []models.CarouselSlide { return append(s, s[0]) }},
		{"shuffled roles", func(s []models.CarouselSlide) []models.CarouselSlide {
			s[0], s[1] = s[1], s[0]
			return s
		}},
		{"missing title", func(s []models.CarouselSlide) []models.CarouselSlide {
			s[2].Title = ""
			return s
		}},
		{"missing image prompt", func(s []models.CarouselSlide) []models.CarouselSlide {
			s[4].ImagePrompt = ""
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := repairSlides(tt.mutate(orderedSlides())); ok {
				t.Error("broken slide set accepted")
			}
		})
	}
}

func TestFallbackSlides_RolesInOrder(t *testing.T) {
	slides := fallbackSlides("Brocha Detailing", "Limpieza profunda de ranuras")

	if len(slides) != len(models.SlideRoles) {
		t.Fatalf("got %d slides, want %d", len(slides), len(models.SlideRoles))
	}
	for i, slide := range slides {
		if slide.Type != models.SlideRoles[i] {
			t.Errorf("slide %d: role = %q, want %q", i, slide.Type, models.SlideRoles[i])
		}
		if slide.ID != i+1 {
			t.Errorf("slide %d: ID = %d, want %d", i, slide.ID, i+1)
		}
		if slide.Title == "" || slide.ImagePrompt == "" {
			t.Errorf("slide %d: incomplete template", i)
		}
		if slide.ImageURL != "" {
			t.Errorf("slide %d: template must not carry an image", i)
		}
	}
}

func TestGenerateStrategy_OfflineProducesCompleteResult(t *testing.T) {
	ai := newSimulatedService(t)
	svc := NewCarouselService(ai, NewMusicService(ai))

	got := svc.GenerateStrategy(context.Background(), models.GenerateCarouselRequest{
		ProductName: "Brocha Detailing",
		Features:    "Cerdas suaves, mango ergonómico",
		EduFocus:    "Limpieza profunda",
		MusicGenre:  "Lo-Fi Chill",
	})

	if len(got.Slides) != 5 {
		t.Errorf("got %d slides, want 5", len(got.Slides))
	}
	if got.SocialCopy == "" {
		t.Error("missing social caption")
	}
	if !strings.Contains(got.SunoPrompt, "Lo-Fi Chill") {
		t.Errorf("music prompt not built from requested genre: %q", got.SunoPrompt)
	}
}

func TestGenerateIdeas_OfflineReturnsFive(t *testing.T) {
	ai := newSimulatedService(t)
	svc := NewCarouselService(ai, NewMusicService(ai))

	ideas := svc.GenerateIdeas(context.Background(), "Paño Microfibra", "suave, absorbente")
	if len(ideas) != 5 {
		t.Fatalf("got %d ideas, want 5", len(ideas))
	}
	seen := make(map[string]bool)
	for _, idea := range ideas {
		if idea == "" {
			t.Error("empty idea")
		}
		if seen[idea] {
			t.Errorf("duplicate idea: %q", idea)
		}
		seen[idea] = true
	}
}

func TestRegenerateSlideImage_IsolatedPerSlide(t *testing.T) {
	ai := newSimulatedService(t)
	svc := NewCarouselService(ai, NewMusicService(ai))
	ctx := context.Background()

	// Hook slides are never anchored to the product shot, so in
	// simulation they resolve to a prompt-seeded placeholder.
	ref := dataURI("image/png", []byte("product-shot"))
	hook := svc.RegenerateSlideImage(ctx, models.SlideImageRequest{
		SlideID:     1,
		Role:        models.SlideHook,
		ImagePrompt: "Primer plano del problema",
		ImageRef:    ref,
	})
	if !strings.HasPrefix(hook, "https://picsum.photos/") {
		t.Errorf("hook slide used the reference image: %q", hook)
	}

	solution := svc.RegenerateSlideImage(ctx, models.SlideImageRequest{
		SlideID:     2,
		Role:        models.SlideSolution,
		ImagePrompt: "Hero shot del producto",
		ImageRef:    ref,
	})
	if !strings.HasPrefix(solution, "data:image/png;base64,") {
		t.Errorf("solution slide not anchored to the reference image: %q", solution)
	}
}
