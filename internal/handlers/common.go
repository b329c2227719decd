package handlers

import (
	"encoding/json"
	"net/http"

	"seiso-backend/internal/models"
)

// statusBroadcaster pushes generation progress to connected clients.
// Satisfied by websocket.Hub; nil-safe wrappers below let handlers run
// without a hub in tests.
type statusBroadcaster interface {
	Broadcast(msg models.WSMessage)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func broadcastStatus(hub statusBroadcaster, target string, step int, stepName string) {
	if hub == nil {
		return
	}
	hub.Broadcast(models.WSMessage{
		Type:    "generation_status",
		Payload: models.GenerationStatus{Target: target, Step: step, StepName: stepName},
	})
}

func broadcastDone(hub statusBroadcaster, target string, degraded bool) {
	if hub == nil {
		return
	}
	hub.Broadcast(models.WSMessage{
		Type:    "generation_done",
		Payload: models.GenerationDone{Target: target, Degraded: degraded},
	})
}
