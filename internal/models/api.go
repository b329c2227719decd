package models

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// GenerationStatus reports the progress of one generation target
// ("ad-copy", "ad-image", "carousel-structure", "slide-3", ...).
type GenerationStatus struct {
	Target   string `json:"target"`
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
}

// GenerationDone announces the terminal state of a target. Degraded
// is true when the result came from the deterministic fallback path.
type GenerationDone struct {
	Target   string `json:"target"`
	Degraded bool   `json:"degraded"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
