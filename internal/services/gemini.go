package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUnavailable is returned by text-generation calls when no API key is
// configured. Image calls never return it: they degrade to a placeholder
// instead, so pipelines keep producing complete artifacts offline.
var ErrUnavailable = errors.New("gemini: provider unavailable")

const (
	textModelName  = "gemini-2.5-flash"
	imageModelName = "gemini-2.5-flash-image"

	// Cap on how much of a remote reference image we will buffer.
	maxImageBytes = 8 << 20
)

// GeminiService is the single choke point for all outbound generation
// calls. With an API key it talks to Gemini; without one it runs in
// simulation mode, answering image requests with deterministic
// placeholders after a short artificial delay so the rest of the
// pipeline stays exercisable.
type GeminiService struct {
	client     *genai.Client
	textModel  *genai.GenerativeModel
	jsonModel  *genai.GenerativeModel
	imageModel *genai.GenerativeModel
	rateChan   chan struct{} // Token bucket
	simDelay   time.Duration
	httpClient *http.Client
}

func NewGeminiService(apiKey string, concurrentReqs int, simDelay time.Duration) (*GeminiService, error) {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	s := &GeminiService{
		rateChan:   rateChan,
		simDelay:   simDelay,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, running in simulation mode")
		return s, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	textModel := client.GenerativeModel(textModelName)
	textModel.SetTemperature(0.7)

	jsonModel := client.GenerativeModel(textModelName)
	jsonModel.SetTemperature(0.7)
	jsonModel.ResponseMIMEType = "application/json"

	s.client = client
	s.textModel = textModel
	s.jsonModel = jsonModel
	s.imageModel = client.GenerativeModel(imageModelName)
	return s, nil
}

// Simulated reports whether the service runs without a live provider.
func (s *GeminiService) Simulated() bool {
	return s.client == nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// FetchImage resolves an image reference (data URI, http(s) URL, or
// local file path) to raw bytes plus a detected media type. It fails
// soft: on any resolution problem it returns an empty payload so
// callers can proceed degraded.
func (s *GeminiService) FetchImage(ctx context.Context, ref string) ([]byte, string) {
	if ref == "" {
		return nil, "image/jpeg"
	}

	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			log.Printf("failed to build image request: %v", err)
			return nil, "image/jpeg"
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			log.Printf("failed to fetch reference image: %v", err)
			return nil, "image/jpeg"
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			log.Printf("failed to read reference image: %v", err)
			return nil, "image/jpeg"
		}
		if len(data) == 0 {
			log.Printf("reference image response was empty: %s", ref)
			return nil, "image/jpeg"
		}
		return data, sniffMIME(data, resp.Header.Get("Content-Type"))
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		log.Printf("failed to read reference image file: %v", err)
		return nil, "image/jpeg"
	}
	return data, sniffMIME(data, "")
}

// GenerateImage sends an instruction, optionally anchored to a
// reference image, to the image model and returns the result as a data
// URI. It never fails: provider errors and missing image parts degrade
// to the reference image or a deterministic placeholder.
func (s *GeminiService) GenerateImage(ctx context.Context, refImage []byte, mimeType, prompt string) string {
	if s.Simulated() {
		s.simulateLatency(ctx)
		return bestAvailableImage(refImage, mimeType, prompt)
	}

	if err := s.acquireRate(ctx); err != nil {
		log.Printf("image generation aborted: %v", err)
		return bestAvailableImage(refImage, mimeType, prompt)
	}
	defer s.releaseRate()

	var parts []genai.Part
	if len(refImage) > 0 {
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: refImage})
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := s.imageModel.GenerateContent(ctx, parts...)
	if err != nil {
		log.Printf("Gemini image error: %v", err)
		return bestAvailableImage(refImage, mimeType, prompt)
	}

	if uri := extractInlineImage(resp); uri != "" {
		return uri
	}

	log.Println("Gemini returned no image part, using best available image")
	return bestAvailableImage(refImage, mimeType, prompt)
}

// GenerateStructured sends a prompt requesting strict JSON output,
// optionally anchored to a reference image, and returns the raw
// response text with any code fences stripped. The caller parses it
// and must supply its own deterministic fallback on failure.
func (s *GeminiService) GenerateStructured(ctx context.Context, prompt string, refImage []byte, mimeType string) (string, error) {
	if s.Simulated() {
		s.simulateLatency(ctx)
		return "", ErrUnavailable
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	var parts []genai.Part
	if len(refImage) > 0 {
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: refImage})
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := s.jsonModel.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := stripFences(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty structured response")
	}
	return text, nil
}

// GenerateText sends a free-form prompt to the text model.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.Simulated() {
		s.simulateLatency(ctx)
		return "", ErrUnavailable
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	resp, err := s.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty text")
	}
	return text, nil
}

// Chat continues a conversation with prior history.
func (s *GeminiService) Chat(ctx context.Context, history []*genai.Content, message string) (string, error) {
	if s.Simulated() {
		s.simulateLatency(ctx)
		return "", ErrUnavailable
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	cs := s.textModel.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("Gemini chat error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty chat reply")
	}
	return text, nil
}

func (s *GeminiService) simulateLatency(ctx context.Context) {
	if s.simDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.simDelay):
	case <-ctx.Done():
	}
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func extractInlineImage(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				mime := blob.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return dataURI(mime, blob.Data)
			}
		}
	}
	return ""
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// extractJSONArray slices out the outermost JSON array of a response
// that carries extra prose around it.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decodeDataURI(uri string) ([]byte, string) {
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return nil, "image/jpeg"
	}
	meta, payload := rest[:comma], rest[comma+1:]

	mime := "image/jpeg"
	if semi := strings.Index(meta, ";"); semi > 0 {
		mime = meta[:semi]
	} else if meta != "" {
		mime = meta
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		log.Printf("failed to decode data URI: %v", err)
		return nil, "image/jpeg"
	}
	return data, mime
}

func sniffMIME(data []byte, declared string) string {
	if declared != "" && strings.HasPrefix(declared, "image/") {
		return declared
	}
	return http.DetectContentType(data)
}

// bestAvailableImage implements the degrade policy: hand back the
// reference image unchanged when there is one, otherwise a placeholder
// URL seeded deterministically from the prompt.
func bestAvailableImage(refImage []byte, mimeType, prompt string) string {
	if len(refImage) > 0 {
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		return dataURI(mimeType, refImage)
	}
	return placeholderImageURL(prompt)
}

func placeholderImageURL(seed string) string {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return fmt.Sprintf("https://picsum.photos/seed/%x/500/500", h.Sum32())
}
