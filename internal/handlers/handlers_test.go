package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seiso-backend/internal/models"
	"seiso-backend/internal/services"
	"seiso-backend/internal/store"
)

// testEnv wires the handlers against a temp-dir file store and the
// simulated provider, the same shape main assembles.
type testEnv struct {
	ads      *AdsHandler
	carousel *CarouselHandler
	video    *VideoHandler
	studio   *StudioHandler
	planner  *PlannerHandler
	export   *ExportHandler
	store    *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	blob, err := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	st := store.New(blob)

	ai, err := services.NewGeminiService("", 2, time.Millisecond)
	if err != nil {
		t.Fatalf("NewGeminiService: %v", err)
	}
	t.Cleanup(ai.Close)

	music := services.NewMusicService(ai)
	tracker := services.NewTracker()

	return &testEnv{
		ads:      NewAdsHandler(services.NewAdsService(ai), st, tracker, nil, true),
		carousel: NewCarouselHandler(services.NewCarouselService(ai, music), st, tracker, nil, true),
		video:    NewVideoHandler(services.NewVideoService(ai, music), st, tracker, nil, true),
		studio:   NewStudioHandler(services.NewStudioService(ai), tracker, nil, true),
		planner:  NewPlannerHandler(services.NewChatService(ai), st),
		export:   NewExportHandler(st),
		store:    st,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeResp(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func testDataURI(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

// ─── Ads Handler Tests ───

func TestAdsGenerateCopy_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.ads.GenerateCopy, "/api/v1/ads/copy", map[string]string{"price": "120"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	decodeResp(t, rr, &resp)
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
	}
	if resp.Error.Fields["product_name"] != "required" {
		t.Errorf("Expected product_name field error, got %v", resp.Error.Fields)
	}
}

func TestAdsGenerateCopy_OfflineReturnsCopy(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.ads.GenerateCopy, "/api/v1/ads/copy", models.GenerateAdCopyRequest{
		ProductName: "Mini Proyector YG300",
		Price:       "120",
		Strategy:    models.StrategyUrgency,
		Description: "Proyector portátil HD",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	decodeResp(t, rr, &resp)
	if !strings.Contains(resp["copy"], "Mini Proyector YG300") {
		t.Errorf("Copy missing product name: %q", resp["copy"])
	}
}

func TestAdsSaveAndList(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.ads.Save, "/api/v1/ads", models.SaveAdRequest{
		ProductName:   "Hervidor Eléctrico",
		Price:         "45",
		Strategy:      models.StrategyScarcity,
		GeneratedCopy: "🔥 ¡Última oportunidad!",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var saved models.AdCampaign
	decodeResp(t, rr, &saved)
	if saved.ID == "" {
		t.Error("Saved campaign has no ID")
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/ads", nil)
	listRR := httptest.NewRecorder()
	env.ads.List(listRR, listReq)

	var ads []models.AdCampaign
	decodeResp(t, listRR, &ads)
	if len(ads) != 1 || ads[0].ProductName != "Hervidor Eléctrico" {
		t.Errorf("Unexpected list result: %+v", ads)
	}
}

// ─── Carousel Handler Tests ───

func TestCarouselGenerate_OfflineFiveSlides(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.carousel.Generate, "/api/v1/carousels/generate", models.GenerateCarouselRequest{
		ProductName: "Brocha Detailing",
		Features:    "Cerdas suaves",
		EduFocus:    "Limpieza profunda",
		MusicGenre:  "Lo-Fi Chill",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var strategy models.CarouselStrategy
	decodeResp(t, rr, &strategy)
	if len(strategy.Slides) != 5 {
		t.Fatalf("Expected 5 slides, got %d", len(strategy.Slides))
	}
	for i, slide := range strategy.Slides {
		if slide.Type != models.SlideRoles[i] {
			t.Errorf("Slide %d role = %q, want %q", i, slide.Type, models.SlideRoles[i])
		}
	}
	if strategy.SocialCopy == "" || strategy.SunoPrompt == "" {
		t.Error("Strategy missing caption or music prompt")
	}
}

func TestCarouselSlideImage_Isolated(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.carousel.SlideImage, "/api/v1/carousels/slide-image", models.SlideImageRequest{
		SlideID:     2,
		Role:        models.SlideSolution,
		ImagePrompt: "Hero shot del producto",
		ImageRef:    testDataURI("product"),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp map[string]string
	decodeResp(t, rr, &resp)
	if resp["image"] == "" {
		t.Error("Slide image empty")
	}
}

// ─── Video Handler Tests ───

func TestVideoScript_RequiresReferenceImage(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.video.Script, "/api/v1/videos/script", models.GenerateScriptRequest{
		ProductName: "Mini Proyector YG300",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	decodeResp(t, rr, &resp)
	if resp.Error.Fields["image_ref"] != "required" {
		t.Errorf("Expected image_ref field error, got %v", resp.Error.Fields)
	}
}

func TestVideoScript_OfflineTimingInvariants(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.video.Script, "/api/v1/videos/script", models.GenerateScriptRequest{
		ProductName: "Mini Proyector YG300",
		Price:       "120",
		Description: "Proyector portátil HD",
		Style:       models.StyleCinematic3D,
		ImageRef:    testDataURI("product"),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var script models.VideoScript
	decodeResp(t, rr, &script)
	if len(script.Segments) < models.MinVideoSegments {
		t.Fatalf("Expected at least %d segments, got %d", models.MinVideoSegments, len(script.Segments))
	}
	for i, seg := range script.Segments {
		if want := models.TimeRangeFor(i); seg.TimeRange != want {
			t.Errorf("Segment %d time range = %q, want %q", i, seg.TimeRange, want)
		}
	}
}

// ─── Studio Handler Tests ───

func TestStudioEnhance_RequiresImage(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.studio.Enhance, "/api/v1/studio/enhance", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}

func TestStudioEnhance_OfflineKeepsSource(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.studio.Enhance, "/api/v1/studio/enhance", map[string]string{
		"image_ref": testDataURI("photo"),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp map[string]string
	decodeResp(t, rr, &resp)
	if !strings.HasPrefix(resp["image"], "data:image/png;base64,") {
		t.Errorf("Degraded edit did not return the source photo: %q", resp["image"])
	}
}

// ─── Planner Handler Tests ───

func TestPlannerChat_SchedulingIntentSeedsEvent(t *testing.T) {
	env := newTestEnv(t)

	rr := postJSON(t, env.planner.PostChat, "/api/v1/planner/chat", models.ChatRequest{
		Message: "Quiero agendar una campaña para el proyector",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.ChatResponse
	decodeResp(t, rr, &resp)
	if resp.Reply == "" {
		t.Error("Empty assistant reply")
	}
	// Welcome message + user turn + assistant turn.
	if len(resp.Messages) != 3 {
		t.Errorf("Expected 3 messages, got %d", len(resp.Messages))
	}

	eventsReq := httptest.NewRequest(http.MethodGet, "/api/v1/planner/events", nil)
	eventsRR := httptest.NewRecorder()
	env.planner.ListEvents(eventsRR, eventsReq)

	var events []models.CalendarEvent
	decodeResp(t, eventsRR, &events)
	if len(events) != 1 {
		t.Fatalf("Expected 1 seeded event, got %d", len(events))
	}
	if events[0].Title != "Nueva Idea Estratégica" || events[0].Status != models.EventIdea {
		t.Errorf("Unexpected seeded event: %+v", events[0])
	}
}

func TestPlannerUpsertEvent_OverwritesByID(t *testing.T) {
	env := newTestEnv(t)

	event := models.CalendarEvent{
		ID:     "77",
		Title:  "Lanzamiento Reels",
		Date:   time.Now(),
		Status: models.EventIdea,
		Type:   "video",
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/planner/events", bytes.NewReader(mustMarshal(t, event)))
	rr := httptest.NewRecorder()
	env.planner.UpsertEvent(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	event.Status = models.EventPublished
	req = httptest.NewRequest(http.MethodPut, "/api/v1/planner/events", bytes.NewReader(mustMarshal(t, event)))
	rr = httptest.NewRecorder()
	env.planner.UpsertEvent(rr, req)

	eventsReq := httptest.NewRequest(http.MethodGet, "/api/v1/planner/events", nil)
	eventsRR := httptest.NewRecorder()
	env.planner.ListEvents(eventsRR, eventsReq)

	var events []models.CalendarEvent
	decodeResp(t, eventsRR, &events)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event after upsert, got %d", len(events))
	}
	if events[0].Status != models.EventPublished {
		t.Errorf("Event not overwritten: %+v", events[0])
	}
}

// ─── Export Handler Tests ───

func TestExportDatabase_Attachment(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/database", nil)
	rr := httptest.NewRecorder()
	env.export.Database(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	disposition := rr.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "Seiso_Backup_") || !strings.Contains(disposition, ".json") {
		t.Errorf("Unexpected Content-Disposition: %q", disposition)
	}

	var db models.Database
	decodeResp(t, rr, &db)
	if len(db.ChatHistory) == 0 {
		t.Error("Exported database missing seeded chat history")
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}
