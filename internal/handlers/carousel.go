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

type CarouselHandler struct {
	carousel  *services.CarouselService
	store     *store.Store
	tracker   *services.Tracker
	hub       statusBroadcaster
	simulated bool
}

func NewCarouselHandler(carousel *services.CarouselService, st *store.Store, tracker *services.Tracker, hub statusBroadcaster, simulated bool) *CarouselHandler {
	return &CarouselHandler{carousel: carousel, store: st, tracker: tracker, hub: hub, simulated: simulated}
}

// Ideas returns five candidate educational angles for a product.
func (h *CarouselHandler) Ideas(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateIdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ProductName == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"product_name": "required"}, r))
		return
	}

	ideas := h.carousel.GenerateIdeas(r.Context(), req.ProductName, req.Features)
	writeJSON(w, http.StatusOK, map[string][]string{"ideas": ideas})
}

// Generate produces the full strategy: the five-slide structure, the
// social caption and the music prompt. Slide images are not generated
// here; they are requested per slide afterwards.
func (h *CarouselHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCarouselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ProductName == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"product_name": "required"}, r))
		return
	}

	const target = "carousel-structure"
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Diseñando estructura de 5 slides")

	strategy := h.carousel.GenerateStrategy(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, strategy)
}

// SlideImage regenerates one slide's image in isolation. Other slides
// keep their images and the carousel structure is untouched.
func (h *CarouselHandler) SlideImage(w http.ResponseWriter, r *http.Request) {
	var req models.SlideImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ImagePrompt == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"image_prompt": "required"}, r))
		return
	}

	target := fmt.Sprintf("slide-%d", req.SlideID)
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Generando imagen del slide")

	image := h.carousel.RegenerateSlideImage(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}

// Save appends a finished carousel project to the database.
func (h *CarouselHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveCarouselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Topic == "" || len(req.Slides) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "topic and slides are required", r))
		return
	}

	carousel := models.SavedCarousel{
		ID:         models.NewID(),
		Topic:      req.Topic,
		Slides:     req.Slides,
		SunoPrompt: req.SunoPrompt,
		CreatedAt:  time.Now(),
	}

	if err := h.store.AppendCarousel(r.Context(), carousel); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save carousel", r))
		return
	}
	writeJSON(w, http.StatusCreated, carousel)
}

// List returns every saved carousel, oldest first.
func (h *CarouselHandler) List(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	writeJSON(w, http.StatusOK, db.Carousels)
}
