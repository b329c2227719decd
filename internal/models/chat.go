package models

import "time"

// ChatMessage is one message of the planner chat. The history is
// append-only and persisted wholesale after each exchange.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"` // "user" or "ai"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the planner chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant reply plus the persisted history.
type ChatResponse struct {
	Reply    string        `json:"reply"`
	Messages []ChatMessage `json:"messages"`
}
