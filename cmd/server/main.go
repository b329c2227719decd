package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"seiso-backend/internal/config"
	"seiso-backend/internal/handlers"
	"seiso-backend/internal/router"
	"seiso-backend/internal/services"
	"seiso-backend/internal/store"
	"seiso-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Seiso Marketing Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Blob Storage ────
	blob, cleanup, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("✗ Storage initialization failed: %v", err)
	}
	defer cleanup()
	log.Printf("✓ Storage ready (%s)", cfg.StorageType)

	st := store.New(blob)

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiConcurrentReqs,
		time.Duration(cfg.SimDelayMs)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	if geminiService.Simulated() {
		log.Println("✓ Gemini client in simulation mode (no API key)")
	} else {
		log.Println("✓ Gemini Flash client initialized")
	}

	// ──── Initialize Services ────
	musicService := services.NewMusicService(geminiService)
	adsService := services.NewAdsService(geminiService)
	carouselService := services.NewCarouselService(geminiService, musicService)
	videoService := services.NewVideoService(geminiService, musicService)
	studioService := services.NewStudioService(geminiService)
	chatService := services.NewChatService(geminiService)
	tracker := services.NewTracker()

	// ──── Step 4: Start WebSocket Hub ────
	wsHub := websocket.NewHub()
	log.Println("✓ WebSocket hub started")

	// ──── Initialize Handlers ────
	sim := geminiService.Simulated()
	adsHandler := handlers.NewAdsHandler(adsService, st, tracker, wsHub, sim)
	carouselHandler := handlers.NewCarouselHandler(carouselService, st, tracker, wsHub, sim)
	videoHandler := handlers.NewVideoHandler(videoService, st, tracker, wsHub, sim)
	studioHandler := handlers.NewStudioHandler(studioService, tracker, wsHub, sim)
	plannerHandler := handlers.NewPlannerHandler(chatService, st)
	exportHandler := handlers.NewExportHandler(st)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		adsHandler,
		carouselHandler,
		videoHandler,
		studioHandler,
		plannerHandler,
		exportHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Seiso Marketing Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// newBlobStore picks the storage backend from the config. The cleanup
// func closes whatever the backend holds open.
func newBlobStore(cfg *config.Config) (store.BlobStore, func(), error) {
	switch cfg.StorageType {
	case "redis":
		rs, err := store.NewRedisStore(cfg.RedisURL, cfg.BlobKey)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil

	case "postgres":
		ps, err := store.NewPostgresStore(cfg.DatabaseURL, cfg.BlobKey)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil

	case "file", "local":
		fs, err := store.NewFileStore(filepath.Join(cfg.StoragePath, cfg.BlobKey+".json"))
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
