package services

import (
	"context"
	"strings"
	"testing"

	"seiso-backend/internal/models"
)

func TestMusicGenreForStyle(t *testing.T) {
	tests := []struct {
		style models.VideoStyle
		want  string
	}{
		{models.StyleCinematic3D, "Cinematic Epic"},
		{models.StyleCinematicLifestyle, "Elegant Electronic Pop, Chill"},
		{models.StyleExclusivity, "Cinematic Luxury"},
		{models.StyleProductShowcase, "Trending Phonk"},
		{models.StyleCustomVideo, "Trending Phonk"},
	}
	for _, tt := range tests {
		if got := MusicGenreForStyle(tt.style); got != tt.want {
			t.Errorf("MusicGenreForStyle(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestFallbackSegments_TimingInvariants(t *testing.T) {
	segments := fallbackSegments("Mini Proyector YG300", "120")

	if len(segments) < models.MinVideoSegments {
		t.Fatalf("got %d segments, want at least %d", len(segments), models.MinVideoSegments)
	}
	for i, seg := range segments {
		if seg.ID != i {
			t.Errorf("segment %d: ID = %d", i, seg.ID)
		}
		if want := models.TimeRangeFor(i); seg.TimeRange != want {
			t.Errorf("segment %d: time range = %q, want %q", i, seg.TimeRange, want)
		}
		if seg.VideoPrompt == "" || seg.ImagePrompt == "" {
			t.Errorf("segment %d: incomplete template", i)
		}
	}
	if segments[0].TimeRange != "00:00 - 00:06" {
		t.Errorf("script does not start at zero: %q", segments[0].TimeRange)
	}
}

func TestNormalizeSegments_RecomputesWindows(t *testing.T) {
	raw := []models.VideoSegment{
		{ID: 7, TimeRange: "00:10 - 00:40", VisualDescription: "a", VideoPrompt: "p", ImagePrompt: "i", ImageURL: "stale"},
		{ID: 2, TimeRange: "bogus", VisualDescription: "b", VideoPrompt: "p", ImagePrompt: "i"},
		{}, // empty entries are dropped
		{VisualDescription: "c", VideoPrompt: "p", ImagePrompt: "i"},
		{VisualDescription: "d", VideoPrompt: "p", ImagePrompt: "i"},
		{VisualDescription: "e", VideoPrompt: "p", ImagePrompt: "i"},
	}

	got := normalizeSegments(raw, "Producto", "99")
	if len(got) != 5 {
		t.Fatalf("got %d segments, want 5", len(got))
	}
	for i, seg := range got {
		if seg.ID != i {
			t.Errorf("segment %d: ID = %d", i, seg.ID)
		}
		if want := models.TimeRangeFor(i); seg.TimeRange != want {
			t.Errorf("segment %d: time range = %q, want %q", i, seg.TimeRange, want)
		}
		if seg.ImageURL != "" {
			t.Errorf("segment %d: stale image URL kept", i)
		}
		if seg.CameraMovement == "" || seg.Lighting == "" {
			t.Errorf("segment %d: missing defaults", i)
		}
	}
}

func TestNormalizeSegments_PadsShortScripts(t *testing.T) {
	raw := []models.VideoSegment{
		{VisualDescription: "única escena", VideoPrompt: "p", ImagePrompt: "i"},
	}

	got := normalizeSegments(raw, "Hervidor", "45")
	if len(got) != models.MinVideoSegments {
		t.Fatalf("got %d segments, want %d", len(got), models.MinVideoSegments)
	}
	if got[0].VisualDescription != "única escena" {
		t.Errorf("original segment lost during padding: %q", got[0].VisualDescription)
	}
	if got[4].TimeRange != "00:24 - 00:30" {
		t.Errorf("last window = %q, want 00:24 - 00:30", got[4].TimeRange)
	}
}

func TestGenerateScript_OfflineCompleteResult(t *testing.T) {
	ai := newSimulatedService(t)
	svc := NewVideoService(ai, NewMusicService(ai))

	got := svc.GenerateScript(context.Background(), models.GenerateScriptRequest{
		ProductName: "Mini Proyector YG300",
		Price:       "120",
		Description: "Proyector portátil HD",
		Style:       models.StyleCinematic3D,
	})

	if len(got.Segments) < models.MinVideoSegments {
		t.Errorf("got %d segments, want at least %d", len(got.Segments), models.MinVideoSegments)
	}
	if !strings.Contains(got.SunoPrompt, "Cinematic Epic") {
		t.Errorf("music prompt not mapped from style: %q", got.SunoPrompt)
	}
}

func TestStyleInstruction_SpecialBlocks(t *testing.T) {
	if got := styleInstruction(models.StyleCinematic3D); !strings.Contains(got, "octane render") {
		t.Error("3D block missing render keywords")
	}
	if got := styleInstruction(models.StyleCinematicLifestyle); !strings.Contains(got, "INGLÉS") {
		t.Error("lifestyle block missing English prompt rule")
	}
	if got := styleInstruction(models.StyleProblemSolution); got != "" {
		t.Errorf("generic style got a special block: %q", got)
	}
}

func TestRegenerateSegmentImage_AnchoredToReference(t *testing.T) {
	ai := newSimulatedService(t)
	svc := NewVideoService(ai, NewMusicService(ai))

	got := svc.RegenerateSegmentImage(context.Background(), models.SegmentImageRequest{
		SegmentID:   2,
		ImagePrompt: "Primer plano macro",
		ImageRef:    dataURI("image/jpeg", []byte("product")),
	})
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Errorf("segment image not anchored to the reference image: %q", got)
	}
}
