package services

import (
	"context"
)

// StudioService wraps single-image editing operations. Each operation
// is a fixed instruction prompt over the image generator; the input
// photo is always the reference image.
type StudioService struct {
	ai *GeminiService
}

func NewStudioService(ai *GeminiService) *StudioService {
	return &StudioService{ai: ai}
}

const (
	enhancePrompt = "Enhance this product photo to professional e-commerce quality. Improve lighting, sharpness, color balance and contrast. Keep the product exactly as it is, do not alter its shape, text or branding. Output a photorealistic high resolution image."

	removeBackgroundPrompt = "Remove the background of this product photo completely and replace it with a clean, pure white studio background. Keep the product exactly as it is, preserve its edges, shadows under the product are allowed. Output a photorealistic high resolution image."

	cleanupTextPrompt = "Remove any watermarks, stickers, price tags or overlaid text from this product photo. Reconstruct the areas behind them naturally. Keep the product itself exactly as it is. Output a photorealistic high resolution image."
)

// EnhanceImage returns a professionally retouched version of the photo.
func (s *StudioService) EnhanceImage(ctx context.Context, imageRef string) string {
	return s.edit(ctx, imageRef, enhancePrompt)
}

// RemoveBackground isolates the product on a white studio background.
func (s *StudioService) RemoveBackground(ctx context.Context, imageRef string) string {
	return s.edit(ctx, imageRef, removeBackgroundPrompt)
}

// CleanupImageText strips watermarks and overlaid text from the photo.
func (s *StudioService) CleanupImageText(ctx context.Context, imageRef string) string {
	return s.edit(ctx, imageRef, cleanupTextPrompt)
}

func (s *StudioService) edit(ctx context.Context, imageRef, prompt string) string {
	refImage, mimeType := s.ai.FetchImage(ctx, imageRef)
	return s.ai.GenerateImage(ctx, refImage, mimeType, prompt)
}
