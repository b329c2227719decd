package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"seiso-backend/internal/models"
)

// CarouselService runs the carousel pipeline: candidate educational
// angles, then the 5-slide structure in one schema-constrained call,
// then caption and music (independent of slides), then per-slide
// images on demand.
type CarouselService struct {
	ai    *GeminiService
	music *MusicService
}

func NewCarouselService(ai *GeminiService, music *MusicService) *CarouselService {
	return &CarouselService{ai: ai, music: music}
}

// GenerateIdeas returns five candidate educational angles. The
// fallback shuffles a fixed pool so repeated offline calls still feel
// different.
func (s *CarouselService) GenerateIdeas(ctx context.Context, product, features string) []string {
	prompt := fmt.Sprintf(`Eres un Experto Mentor de "SEISO STORE". Tu trabajo es revelar secretos de la industria.
PRODUCTO: %s
CARACTERÍSTICAS: %s

Genera 5 ángulos educativos ÚNICOS, CURIOSOS y DIFERENTES a lo obvio. Evita clichés.
Busca "Deep Cuts" (información profunda) o "Mitos vs Realidad".

Formato:
1. [Emoji] [Idea corta de max 15 palabras]
2. ...
3. ...
4. ...
5. ...

Solo devuelve las 5 líneas de texto.`, product, features)

	text, err := s.ai.GenerateText(ctx, prompt)
	if err == nil {
		var ideas []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); len(line) > 5 {
				ideas = append(ideas, line)
			}
		}
		if len(ideas) >= 5 {
			return ideas[:5]
		}
	} else if err != ErrUnavailable {
		log.Printf("idea generation failed, using fallback: %v", err)
	}

	pool := []string{
		fmt.Sprintf("✨ La verdad oculta sobre la limpieza de %s.", product),
		"💡 Por qué el 90% lo usa mal (y cómo corregirlo).",
		"💎 El ingrediente secreto que protege tu inversión.",
		fmt.Sprintf("🛑 Mitos vs Realidad: Lo que daña tu %s.", product),
		"🧠 Psicología del cuidado: Por qué esto dura más.",
		fmt.Sprintf("🔬 La ciencia detrás de los materiales de %s.", product),
		"🚀 Hack de rendimiento: Úsalo en la mitad de tiempo.",
		"🛡️ Blindaje total: Cómo prevenir el desgaste.",
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:5]
}

// GenerateStrategy produces the full carousel: the 5-slide structure,
// then the social caption and music prompt concurrently (neither
// depends on slide content or images).
func (s *CarouselService) GenerateStrategy(ctx context.Context, req models.GenerateCarouselRequest) models.CarouselStrategy {
	slides := s.GenerateSlides(ctx, req.ProductName, req.Features, req.EduFocus)

	var (
		wg      sync.WaitGroup
		caption string
		music   string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		caption = s.GenerateSocialCaption(ctx, req.ProductName)
	}()
	go func() {
		defer wg.Done()
		music = s.music.GeneratePrompt(ctx, req.ProductName, req.MusicGenre)
	}()
	wg.Wait()

	return models.CarouselStrategy{Slides: slides, SocialCopy: caption, SunoPrompt: music}
}

// GenerateSlides asks for the 5-slide structure in one call. The
// parsed output is validated against the fixed role order and repaired;
// anything structurally unusable falls back to a deterministic template
// filled from the inputs.
func (s *CarouselService) GenerateSlides(ctx context.Context, product, features, focus string) []models.CarouselSlide {
	if focus == "" {
		focus = "Uso experto"
	}

	raw, err := s.ai.GenerateStructured(ctx, buildCarouselPrompt(product, features, focus), nil, "")
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("carousel structure generation failed, using template: %v", err)
		}
		return fallbackSlides(product, focus)
	}

	var parsed []models.CarouselSlide
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
		if jsonErr = json.Unmarshal([]byte(extractJSONArray(raw)), &parsed); jsonErr != nil {
			log.Printf("carousel structure unparseable, using template: %v", jsonErr)
			return fallbackSlides(product, focus)
		}
	}

	slides, ok := repairSlides(parsed)
	if !ok {
		log.Println("carousel structure invalid, using template")
		return fallbackSlides(product, focus)
	}
	return slides
}

// repairSlides normalizes IDs and enforces the mandatory role order.
// It accepts output whose roles arrive in the right order (fixing IDs),
// and rejects anything with a wrong count, missing fields, or shuffled
// roles.
func repairSlides(slides []models.CarouselSlide) ([]models.CarouselSlide, bool) {
	if len(slides) != len(models.SlideRoles) {
		return nil, false
	}
	for i := range slides {
		if slides[i].Type != models.SlideRoles[i] {
			return nil, false
		}
		if slides[i].Title == "" || slides[i].ImagePrompt == "" {
			return nil, false
		}
		slides[i].ID = i + 1
		slides[i].ImageURL = ""
	}
	return slides, true
}

// GenerateSocialCaption writes the Instagram caption for a carousel.
func (s *CarouselService) GenerateSocialCaption(ctx context.Context, product string) string {
	prompt := fmt.Sprintf(`Actúa como un Mentor Experto para SEISO STORE.
PRODUCTO: %s

Escribe un caption para Instagram:
- Tono: Sabio, tranquilo, conocedor (No uses mayúsculas excesivas ni gritos).
- Empieza con una pregunta reflexiva sobre el cuidado o uso del producto.
- Explica el "Por qué" técnico de forma sencilla.
- Presenta el producto como una inversión inteligente.
- Cierre elegante invitando al perfil.`, product)

	text, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("caption generation failed, using fallback: %v", err)
		}
		return fmt.Sprintf("¿Sabías que la vida útil de tu %s depende de cómo lo cuidas? 🤔\n\n"+
			"Muchos creen que es cuestión de suerte, pero en Seiso sabemos que es cuestión de técnica. "+
			"El error común es ignorar los materiales.\n\n"+
			"Nuestro %s está diseñado con estándares profesionales para quienes valoran sus herramientas.\n\n"+
			"Eleva tu estándar hoy. Enlace en nuestra biografía. 🌟\n\n"+
			"#SeisoStore #Maestria #Calidad #CuidadoProfesional", product, product)
	}
	return text
}

// RegenerateSlideImage generates one slide's image from its own prompt
// plus the latest per-slide refinement. Each call touches only the
// slide it was asked about; hook slides deliberately get no source
// image so the "problem" scene is not anchored to the product shot.
func (s *CarouselService) RegenerateSlideImage(ctx context.Context, req models.SlideImageRequest) string {
	var refImage []byte
	mimeType := ""
	if req.Role != models.SlideHook && req.ImageRef != "" {
		refImage, mimeType = s.ai.FetchImage(ctx, req.ImageRef)
	}

	prompt := req.ImagePrompt
	if req.Refinement != "" {
		prompt += fmt.Sprintf("\n\nINSTRUCCIÓN ADICIONAL DEL USUARIO (PRIORIDAD ALTA): %s. Aplica esto a la imagen.", req.Refinement)
	}
	prompt = "Genera una imagen fotorealista de alta calidad publicitaria (4k, iluminación de estudio) basada en esta descripción: " + prompt

	return s.ai.GenerateImage(ctx, refImage, mimeType, prompt)
}

func buildCarouselPrompt(product, features, focus string) string {
	var b strings.Builder

	b.WriteString(`ROL: Eres un "Mentor Experto" (Arquetipo: El Sabio).
TU FILOSOFÍA: No vendes productos, vendes maestría y resultados. Conoces el producto mejor que nadie.
TONO: Sofisticado, empático, seguro, técnico pero accesible. NUNCA uses jerga militar. Habla de "secretos", "técnica", "cuidado" e "inversión inteligente".

OBJETIVO: Generar un plan de carrusel de 5 slides para SEISO STORE.
IDIOMA DE SALIDA: ESPAÑOL (Tanto para textos como para prompts de imagen).

`)
	fmt.Fprintf(&b, "INPUTS:\n- PRODUCTO: %q\n- CARACTERÍSTICAS: %q\n- FOCO EDUCATIVO (Ángulo elegido): %q\n\n", product, features, focus)

	b.WriteString("ESTRUCTURA OBLIGATORIA (Devuelve un JSON Array con 5 objetos, en este orden exacto):\n\n")
	fmt.Fprintf(&b, `Slide 1 (Gancho/Problema):
- type: "hook"
- title: "El Diagnóstico"
- content: contexto del problema común por falta de conocimiento.
- overlayText: frase empática que señale un error común.
- imagePrompt: descripción DETALLADA en ESPAÑOL del problema visual SIN mostrar el producto todavía. Iluminación dramática pero realista.

Slide 2 (Solución/Revelación):
- type: "solution"
- title: "La Herramienta del Maestro"
- content: presentación del producto como la herramienta definitiva.
- overlayText: frase de autoridad serena.
- imagePrompt: HERO SHOT del producto %q luciendo impecable, profesional y premium.

Slide 3 (Edu 1 - Profundidad):
- type: "edu1"
- title: "Lección Técnica"
- content: explicación profunda del "por qué" funciona.
- overlayText: frase educativa basada en el foco %q.
- imagePrompt: USO correcto del producto %q. Plano detalle de manos expertas.

Slide 4 (Edu 2 - Evidencia):
- type: "edu2"
- title: "El Resultado"
- content: la transformación lograda.
- overlayText: frase de validación.
- imagePrompt: resultado final PERFECTO logrado gracias al producto %q.

Slide 5 (CTA - Invitación):
- type: "cta"
- title: "Invitación al Club"
- content: cierre invitando a elevar el estándar.
- overlayText: frase de pertenencia con "Link en Bio".
- imagePrompt: composición elegante con el producto %q, colores de marca (naranja/blanco) sobrios y profesionales.

`, product, focus, product, product, product)

	b.WriteString(`IMPORTANTE:
- Devuelve SOLO el JSON Array válido. Sin markdown.
- Los campos de cada objeto: "type", "title", "content", "overlayText", "imagePrompt".
- Los 'imagePrompt' deben estar en ESPAÑOL.
- ASEGURA que el Slide 2 describa el producto claramente.`)

	return b.String()
}

// fallbackSlides is the deterministic template: the same five roles in
// the mandatory order, filled from the raw inputs.
func fallbackSlides(product, focus string) []models.CarouselSlide {
	shortFocus := focus
	if runes := []rune(shortFocus); len(runes) > 15 {
		shortFocus = string(runes[:15])
	}

	return []models.CarouselSlide{
		{
			ID:          1,
			Type:        models.SlideHook,
			Title:       "El Diagnóstico",
			Content:     fmt.Sprintf("Primer plano del problema común con %s.", product),
			OverlayText: fmt.Sprintf("¿Tu %s no rinde? Quizás estás ignorando esto.", product),
			ImagePrompt: fmt.Sprintf("Primer plano dramático mostrando el problema que resuelve %s (ej. suciedad, desgaste). Estilo documental de alta calidad.", product),
		},
		{
			ID:          2,
			Type:        models.SlideSolution,
			Title:       "La Herramienta del Maestro",
			Content:     fmt.Sprintf("Presentación del %s como solución experta.", product),
			OverlayText: "La herramienta definitiva de Seiso Store. Calidad Profesional.",
			ImagePrompt: fmt.Sprintf("Hero Shot de %s sobre un fondo limpio y elegante. Iluminación de estudio suave que resalte los materiales y la calidad.", product),
		},
		{
			ID:          3,
			Type:        models.SlideEdu1,
			Title:       "Lección Técnica",
			Content:     "Demostración de uso inteligente.",
			OverlayText: fmt.Sprintf("El secreto no es fuerza, es técnica: %s...", shortFocus),
			ImagePrompt: fmt.Sprintf("Plano detalle de manos expertas utilizando %s con precisión. Ambiente de taller limpio o estudio profesional.", product),
		},
		{
			ID:          4,
			Type:        models.SlideEdu2,
			Title:       "El Resultado",
			Content:     "Resultado final impecable.",
			OverlayText: "Resultados que hablan por sí solos. Impecable.",
			ImagePrompt: fmt.Sprintf("Fotografía del resultado final perfecto logrado con %s. Brillo, orden y perfección visual.", product),
		},
		{
			ID:          5,
			Type:        models.SlideCTA,
			Title:       "Invitación",
			Content:     "Cierre de marca.",
			OverlayText: "No te conformes con menos. Únete a los expertos Seiso. (Link en Bio).",
			ImagePrompt: fmt.Sprintf("Bodegón elegante con %s y elementos de branding sutiles. Estética minimalista y premium.", product),
		},
	}
}
