package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"seiso-backend/internal/models"
	"seiso-backend/internal/services"
	"seiso-backend/internal/store"
)

type VideoHandler struct {
	video     *services.VideoService
	store     *store.Store
	tracker   *services.Tracker
	hub       statusBroadcaster
	simulated bool
}

func NewVideoHandler(video *services.VideoService, st *store.Store, tracker *services.Tracker, hub statusBroadcaster, simulated bool) *VideoHandler {
	return &VideoHandler{video: video, store: st, tracker: tracker, hub: hub, simulated: simulated}
}

// Script generates the full shooting script plus the style-mapped
// music prompt in one response.
func (h *VideoHandler) Script(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if req.ProductName == "" {
		fields["product_name"] = "required"
	}
	if req.ImageRef == "" {
		fields["image_ref"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields", fields, r))
		return
	}

	const target = "video-script"
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Escribiendo guion técnico")

	script := h.video.GenerateScript(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, script)
}

// SegmentImage regenerates one segment's start frame, always anchored
// to the product reference image. Other segments are untouched.
func (h *VideoHandler) SegmentImage(w http.ResponseWriter, r *http.Request) {
	var req models.SegmentImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ImagePrompt == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"image_prompt": "required"}, r))
		return
	}

	target := fmt.Sprintf("segment-%d", req.SegmentID)
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Generando frame inicial")

	image := h.video.RegenerateSegmentImage(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}

// Save appends a finished video project to the database.
func (h *VideoHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ProductName == "" || len(req.Segments) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "product_name and segments are required", r))
		return
	}

	video := models.SavedVideoProject{
		ID:          models.NewID(),
		ProductName: req.ProductName,
		Segments:    req.Segments,
		SunoPrompt:  req.SunoPrompt,
		CreatedAt:   time.Now(),
	}

	if err := h.store.AppendVideo(r.Context(), video); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save video project", r))
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

// List returns every saved video project, oldest first.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	writeJSON(w, http.StatusOK, db.Videos)
}
