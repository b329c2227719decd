package models

import (
	"fmt"
	"time"
)

// SegmentSeconds is the fixed duration of every video segment.
const SegmentSeconds = 6

// MinVideoSegments gives the 30-second floor: 5 segments of 6 seconds.
const MinVideoSegments = 5

// VideoStyle selects one of the mutually exclusive instruction blocks
// used when generating a script. A closed enumeration; anything not
// listed falls back to the generic block.
type VideoStyle string

const (
	StyleCinematic3D        VideoStyle = "Cinematic 3D"
	StyleCinematicLifestyle VideoStyle = "Cinematic Lifestyle"
	StyleProductShowcase    VideoStyle = "Presentación de Producto"
	StyleProblemSolution    VideoStyle = "Problema-Solución"
	StyleExclusivity        VideoStyle = "Exclusividad"
	StyleScarcityUrgency    VideoStyle = "Escasez Urgencia"
	StyleCustomVideo        VideoStyle = "Personalizado"
)

// VideoSegment is one 6-second scene of a vertical product video.
// VideoPrompt drives a video generator; ImagePrompt drives the static
// start-frame image.
type VideoSegment struct {
	ID                int       `json:"id"` // 0-based position
	TimeRange         string    `json:"timeRange"` // "00:00 - 00:06"
	VisualDescription string    `json:"visualDescription"`
	CameraMovement    string    `json:"cameraMovement"`
	Lighting          string    `json:"lighting"`
	VideoPrompt       string    `json:"grokPrompt"`
	ImagePrompt       string    `json:"imagePrompt"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	ReferenceImage    string    `json:"referenceImage"`
}

// SavedVideoProject is a persisted shooting script.
type SavedVideoProject struct {
	ID          string         `json:"id"`
	ProductName string         `json:"productName"`
	Segments    []VideoSegment `json:"segments"`
	SunoPrompt  string         `json:"sunoPrompt"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// GenerateScriptRequest asks for a full video script.
type GenerateScriptRequest struct {
	ProductName string     `json:"product_name"`
	Price       string     `json:"price"`
	Description string     `json:"description"`
	Style       VideoStyle `json:"style"`
	ImageRef    string     `json:"image_ref"`
}

// VideoScript is the assembled result: validated segments plus the
// style-matched music prompt.
type VideoScript struct {
	Segments   []VideoSegment `json:"segments"`
	SunoPrompt string         `json:"suno_prompt"`
}

// SegmentImageRequest regenerates one segment's start frame, anchored
// to the shared product reference image.
type SegmentImageRequest struct {
	SegmentID   int    `json:"segment_id"`
	ImagePrompt string `json:"image_prompt"`
	ImageRef    string `json:"image_ref"`
}

// SaveVideoRequest persists a finished script.
type SaveVideoRequest struct {
	ProductName string         `json:"product_name"`
	Segments    []VideoSegment `json:"segments"`
	SunoPrompt  string         `json:"suno_prompt"`
}

// TimeRangeFor formats the contiguous 6-second window for a 0-based
// segment position, e.g. TimeRangeFor(1) = "00:06 - 00:12".
func TimeRangeFor(position int) string {
	start := position * SegmentSeconds
	end := start + SegmentSeconds
	return fmt.Sprintf("%s - %s", clockTime(start), clockTime(end))
}

func clockTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
