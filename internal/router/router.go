package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"seiso-backend/internal/handlers"
	"seiso-backend/internal/middleware"
	"seiso-backend/internal/websocket"
)

func New(
	adsHandler *handlers.AdsHandler,
	carouselHandler *handlers.CarouselHandler,
	videoHandler *handlers.VideoHandler,
	studioHandler *handlers.StudioHandler,
	plannerHandler *handlers.PlannerHandler,
	exportHandler *handlers.ExportHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generation rate limiter (30 req/min per IP)
	genLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Ads Routes ────
		r.Route("/ads", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(genLimiter.Middleware)
				r.Post("/copy", adsHandler.GenerateCopy)
				r.Post("/image", adsHandler.GenerateImage)
			})
			r.Post("/", adsHandler.Save)
			r.Get("/", adsHandler.List)
			r.Get("/{id}/export", exportHandler.Ad)
		})

		// ──── Carousel Routes ────
		r.Route("/carousels", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(genLimiter.Middleware)
				r.Post("/ideas", carouselHandler.Ideas)
				r.Post("/generate", carouselHandler.Generate)
				r.Post("/slide-image", carouselHandler.SlideImage)
			})
			r.Post("/", carouselHandler.Save)
			r.Get("/", carouselHandler.List)
			r.Get("/{id}/export", exportHandler.Carousel)
		})

		// ──── Video Routes ────
		r.Route("/videos", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(genLimiter.Middleware)
				r.Post("/script", videoHandler.Script)
				r.Post("/segment-image", videoHandler.SegmentImage)
			})
			r.Post("/", videoHandler.Save)
			r.Get("/", videoHandler.List)
			r.Get("/{id}/export", exportHandler.Video)
		})

		// ──── Photo Studio Routes ────
		r.Route("/studio", func(r chi.Router) {
			r.Use(genLimiter.Middleware)
			r.Post("/enhance", studioHandler.Enhance)
			r.Post("/remove-background", studioHandler.RemoveBackground)
			r.Post("/cleanup-text", studioHandler.CleanupText)
		})

		// ──── Planner Routes ────
		r.Route("/planner", func(r chi.Router) {
			r.Get("/events", plannerHandler.ListEvents)
			r.Put("/events", plannerHandler.UpsertEvent)
			r.Get("/chat", plannerHandler.GetChat)
			r.Post("/chat", plannerHandler.PostChat)
		})

		// ──── Export Routes ────
		r.Get("/export/database", exportHandler.Database)

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
