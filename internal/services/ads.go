package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"seiso-backend/internal/models"
)

// AdsService runs the ad pipeline: copy first, then a marketing image
// conditioned on that copy. Both steps degrade to deterministic
// fallbacks instead of failing.
type AdsService struct {
	ai *GeminiService
}

func NewAdsService(ai *GeminiService) *AdsService {
	return &AdsService{ai: ai}
}

// GenerateCopy produces the ad copy. It always succeeds: when the
// provider is unavailable or errors, a templated copy built from the
// raw inputs is returned instead.
func (s *AdsService) GenerateCopy(ctx context.Context, req models.GenerateAdCopyRequest) string {
	prompt := buildAdCopyPrompt(req)

	text, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("ad copy generation failed, using fallback: %v", err)
		}
		return fallbackAdCopy(req)
	}
	return text
}

// GenerateImage produces the marketing image for an ad. The generated
// copy and the strategy are passed as context so the composition is
// biased by the text the user already approved, and the optional
// refinement carries the latest manual correction only.
func (s *AdsService) GenerateImage(ctx context.Context, req models.GenerateAdImageRequest) string {
	refImage, mimeType := s.ai.FetchImage(ctx, req.ImageRef)

	var b strings.Builder
	b.WriteString("You are an expert commercial advertising photographer.\n")
	fmt.Fprintf(&b, "Product: %s\n", req.ProductName)
	fmt.Fprintf(&b, "Strategy: %s\n", req.Strategy)
	fmt.Fprintf(&b, "Context: %s\n", req.Copy)
	b.WriteString("Task: Create a high-end marketing image preserving the product identity.\n")
	if req.Refinement != "" {
		fmt.Fprintf(&b, "\nUSER INSTRUCTION (HIGH PRIORITY): %s\n", req.Refinement)
	}

	return s.ai.GenerateImage(ctx, refImage, mimeType, b.String())
}

func buildAdCopyPrompt(req models.GenerateAdCopyRequest) string {
	var b strings.Builder

	b.WriteString("Eres un copywriter senior de SEISO STORE especializado en anuncios para Meta (Facebook/Instagram).\n\n")

	fmt.Fprintf(&b, "PRODUCTO: %s\n", req.ProductName)
	fmt.Fprintf(&b, "PRECIO: S/ %s\n", req.Price)
	fmt.Fprintf(&b, "DETALLES: %s\n\n", req.Description)

	fmt.Fprintf(&b, "ESTRATEGIA PSICOLÓGICA: %s\n", req.Strategy)
	switch req.Strategy {
	case models.StrategyPainVsSolution:
		b.WriteString("Abre con el dolor concreto que sufre el cliente y presenta el producto como la solución directa.\n")
	case models.StrategyExclusivity:
		b.WriteString("Tono VIP y aspiracional. Habla de acceso limitado y de pertenecer a un grupo selecto.\n")
	case models.StrategyScarcity:
		b.WriteString("Comunica stock limitado de forma creíble, sin sonar desesperado.\n")
	case models.StrategySocialProof:
		b.WriteString("Apóyate en la experiencia de otros compradores y resultados comprobados.\n")
	case models.StrategyUrgency:
		b.WriteString("Genera sensación de oportunidad que expira pronto. Usa llamados de acción inmediatos.\n")
	default:
		b.WriteString("Analiza los detalles del producto y elige el ángulo de venta más persuasivo.\n")
	}

	switch req.Length {
	case models.LengthShort:
		b.WriteString("\nLONGITUD: Máximo 40 palabras. Un gancho y un llamado a la acción.\n")
	case models.LengthLong:
		b.WriteString("\nLONGITUD: Entre 120 y 180 palabras, con beneficios desarrollados en viñetas.\n")
	default:
		b.WriteString("\nLONGITUD: Entre 60 y 100 palabras.\n")
	}

	b.WriteString("\nREGLAS: Escribe en ESPAÑOL, con emojis moderados y el precio visible. ")
	b.WriteString("Analiza los detalles técnicos para crear el mensaje de venta, no los copies literalmente. ")
	b.WriteString("Devuelve SOLO el texto del anuncio.\n")

	return b.String()
}

func fallbackAdCopy(req models.GenerateAdCopyRequest) string {
	desc := req.Description
	if runes := []rune(desc); len(runes) > 50 {
		desc = string(runes[:50])
	}
	return fmt.Sprintf("🔥 ¡%s está disponible! Precio S/ %s. %s...", req.ProductName, req.Price, desc)
}
