package models

import "time"

// EventStatus tracks where a planned piece of content sits in the
// production flow.
type EventStatus string

const (
	EventIdea       EventStatus = "idea"
	EventProduction EventStatus = "production"
	EventScheduled  EventStatus = "scheduled"
	EventPublished  EventStatus = "published"
)

// CalendarEvent is one entry of the content calendar. Events are
// upserted by ID: saving an event whose ID already exists overwrites
// the stored entry instead of duplicating it.
type CalendarEvent struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Date   time.Time   `json:"date"`
	Status EventStatus `json:"status"`
	Type   string      `json:"type"` // "ads" | "carousel" | "video" | "planner"
}
