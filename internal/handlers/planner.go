package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"seiso-backend/internal/models"
	"seiso-backend/internal/services"
	"seiso-backend/internal/store"
)

type PlannerHandler struct {
	chat  *services.ChatService
	store *store.Store
}

func NewPlannerHandler(chat *services.ChatService, st *store.Store) *PlannerHandler {
	return &PlannerHandler{chat: chat, store: st}
}

// ListEvents returns the content calendar.
func (h *PlannerHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	writeJSON(w, http.StatusOK, db.Planner)
}

// UpsertEvent saves a calendar event. An existing ID overwrites the
// stored entry; a new or empty ID appends.
func (h *PlannerHandler) UpsertEvent(w http.ResponseWriter, r *http.Request) {
	var event models.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if event.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"title": "required"}, r))
		return
	}
	if event.ID == "" {
		event.ID = models.NewID()
	}
	if event.Status == "" {
		event.Status = models.EventIdea
	}

	if err := h.store.UpsertCalendarEvent(r.Context(), event); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save event", r))
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// GetChat returns the persisted conversation.
func (h *PlannerHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	writeJSON(w, http.StatusOK, db.ChatHistory)
}

// PostChat appends the user message, asks the assistant for a reply
// and persists the whole history. A scheduling intent additionally
// seeds an idea event three days out, mirroring what the assistant
// promises in its reply.
func (h *PlannerHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"message": "required"}, r))
		return
	}

	db := h.store.Load(r.Context())
	history := db.ChatHistory

	reply := h.chat.Reply(r.Context(), history, req.Message)

	now := time.Now()
	history = append(history,
		models.ChatMessage{ID: models.NewID(), Sender: "user", Text: req.Message, Timestamp: now},
		models.ChatMessage{ID: models.NewID(), Sender: "ai", Text: reply, Timestamp: now},
	)

	if err := h.store.ReplaceChatHistory(r.Context(), history); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to persist chat", r))
		return
	}

	if services.WantsScheduling(req.Message) {
		event := models.CalendarEvent{
			ID:     models.NewID(),
			Title:  "Nueva Idea Estratégica",
			Date:   now.AddDate(0, 0, 3),
			Status: models.EventIdea,
			Type:   "planner",
		}
		if err := h.store.UpsertCalendarEvent(r.Context(), event); err != nil {
			log.Printf("failed to seed planner event from chat: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, Messages: history})
}
