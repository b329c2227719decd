package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"seiso-backend/internal/services"
)

type StudioHandler struct {
	studio    *services.StudioService
	tracker   *services.Tracker
	hub       statusBroadcaster
	simulated bool
}

func NewStudioHandler(studio *services.StudioService, tracker *services.Tracker, hub statusBroadcaster, simulated bool) *StudioHandler {
	return &StudioHandler{studio: studio, tracker: tracker, hub: hub, simulated: simulated}
}

// studioRequest is the shared payload of all three editing operations.
type studioRequest struct {
	ImageRef string `json:"image_ref"`
}

func (h *StudioHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "studio-enhance", "Mejorando calidad de foto", h.studio.EnhanceImage)
}

func (h *StudioHandler) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "studio-background", "Quitando fondo", h.studio.RemoveBackground)
}

func (h *StudioHandler) CleanupText(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "studio-cleanup", "Eliminando textos y marcas", h.studio.CleanupImageText)
}

func (h *StudioHandler) edit(w http.ResponseWriter, r *http.Request, target, stepName string, op func(context.Context, string) string) {
	var req studioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ImageRef == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"image_ref": "required"}, r))
		return
	}

	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, stepName)

	image := op(r.Context(), req.ImageRef)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}
