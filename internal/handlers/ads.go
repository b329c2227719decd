package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"seiso-backend/internal/models"
	"seiso-backend/internal/services"
	"seiso-backend/internal/store"
)

type AdsHandler struct {
	ads       *services.AdsService
	store     *store.Store
	tracker   *services.Tracker
	hub       statusBroadcaster
	simulated bool
}

func NewAdsHandler(ads *services.AdsService, st *store.Store, tracker *services.Tracker, hub statusBroadcaster, simulated bool) *AdsHandler {
	return &AdsHandler{ads: ads, store: st, tracker: tracker, hub: hub, simulated: simulated}
}

// GenerateCopy runs the copy step alone. A finished image, if any, is
// not touched; changing the length setting re-runs only this step.
func (h *AdsHandler) GenerateCopy(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateAdCopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if req.ProductName == "" {
		fields["product_name"] = "required"
	}
	if req.Price == "" {
		fields["price"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields", fields, r))
		return
	}

	const target = "ad-copy"
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Redactando copy publicitario")

	copyText := h.ads.GenerateCopy(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, map[string]string{"copy": copyText})
}

// GenerateImage runs the image step, conditioned on already generated
// copy. The optional refinement carries the latest correction only.
func (h *AdsHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateAdImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ProductName == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Missing required fields",
			map[string]string{"product_name": "required"}, r))
		return
	}

	const target = "ad-image"
	token := h.tracker.Begin(target)
	broadcastStatus(h.hub, target, 1, "Generando imagen de marketing")

	image := h.ads.GenerateImage(r.Context(), req)

	if h.tracker.Commit(target, token) {
		broadcastDone(h.hub, target, h.simulated)
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}

// Save appends a finished campaign to the database.
func (h *AdsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ProductName == "" || req.GeneratedCopy == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "product_name and generated_copy are required", r))
		return
	}

	ad := models.AdCampaign{
		ID:             models.NewID(),
		ProductName:    req.ProductName,
		Price:          req.Price,
		Description:    req.Description,
		Strategy:       req.Strategy,
		GeneratedCopy:  req.GeneratedCopy,
		GeneratedImage: req.GeneratedImage,
		CreatedAt:      time.Now(),
	}

	if err := h.store.AppendAd(r.Context(), ad); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save campaign", r))
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

// List returns every saved campaign, oldest first.
func (h *AdsHandler) List(w http.ResponseWriter, r *http.Request) {
	db := h.store.Load(r.Context())
	writeJSON(w, http.StatusOK, db.Ads)
}
