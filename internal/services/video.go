package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"seiso-backend/internal/models"
)

// VideoService runs the video pipeline: a full script of 6-second
// segments generated in one schema-constrained call, a style-mapped
// music prompt, and per-segment start-frame images on demand.
type VideoService struct {
	ai    *GeminiService
	music *MusicService
}

func NewVideoService(ai *GeminiService, music *MusicService) *VideoService {
	return &VideoService{ai: ai, music: music}
}

// MusicGenreForStyle is the deterministic style-to-genre table feeding
// the shared music generator. Not AI-derived.
func MusicGenreForStyle(style models.VideoStyle) string {
	switch style {
	case models.StyleCinematic3D:
		return "Cinematic Epic"
	case models.StyleCinematicLifestyle:
		return "Elegant Electronic Pop, Chill"
	case models.StyleExclusivity:
		return "Cinematic Luxury"
	default:
		return "Trending Phonk"
	}
}

// GenerateScript produces a validated script plus its music prompt.
func (s *VideoService) GenerateScript(ctx context.Context, req models.GenerateScriptRequest) models.VideoScript {
	segments := s.generateSegments(ctx, req)
	music := s.music.GeneratePrompt(ctx, req.ProductName, MusicGenreForStyle(req.Style))
	return models.VideoScript{Segments: segments, SunoPrompt: music}
}

func (s *VideoService) generateSegments(ctx context.Context, req models.GenerateScriptRequest) []models.VideoSegment {
	refImage, mimeType := s.ai.FetchImage(ctx, req.ImageRef)

	raw, err := s.ai.GenerateStructured(ctx, buildVideoPrompt(req), refImage, mimeType)
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("video script generation failed, using template: %v", err)
		}
		return fallbackSegments(req.ProductName, req.Price)
	}

	var parsed []models.VideoSegment
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
		if jsonErr = json.Unmarshal([]byte(extractJSONArray(raw)), &parsed); jsonErr != nil {
			log.Printf("video script unparseable, using template: %v", jsonErr)
			return fallbackSegments(req.ProductName, req.Price)
		}
	}

	return normalizeSegments(parsed, req.ProductName, req.Price)
}

// normalizeSegments enforces the timing invariants regardless of what
// the provider returned: positions are renumbered from 0, every time
// range is recomputed as a contiguous 6-second window, and scripts
// shorter than 30 seconds are padded from the fallback template.
func normalizeSegments(segments []models.VideoSegment, product, price string) []models.VideoSegment {
	var valid []models.VideoSegment
	for _, seg := range segments {
		if seg.VisualDescription == "" && seg.VideoPrompt == "" && seg.ImagePrompt == "" {
			continue
		}
		valid = append(valid, seg)
	}

	if len(valid) < models.MinVideoSegments {
		for _, filler := range fallbackSegments(product, price)[len(valid):] {
			valid = append(valid, filler)
		}
	}

	for i := range valid {
		valid[i].ID = i
		valid[i].TimeRange = models.TimeRangeFor(i)
		if valid[i].VisualDescription == "" {
			valid[i].VisualDescription = "Descripción no disponible"
		}
		if valid[i].CameraMovement == "" {
			valid[i].CameraMovement = "Estático"
		}
		if valid[i].Lighting == "" {
			valid[i].Lighting = "Natural"
		}
		if valid[i].VideoPrompt == "" {
			valid[i].VideoPrompt = fmt.Sprintf("Segundos 0-2: Mostrar %s estático. Segundos 3-6: Zoom lento.", product)
		}
		if valid[i].ImagePrompt == "" {
			valid[i].ImagePrompt = fmt.Sprintf("Primer plano detallado de %s.", product)
		}
		valid[i].ImageURL = ""
		valid[i].ReferenceImage = ""
	}
	return valid
}

// RegenerateSegmentImage generates one segment's start frame, anchored
// to the shared product reference image. Independent per segment.
func (s *VideoService) RegenerateSegmentImage(ctx context.Context, req models.SegmentImageRequest) string {
	refImage, mimeType := s.ai.FetchImage(ctx, req.ImageRef)

	prompt := "Genera una imagen fotorealista de alta calidad publicitaria (4k, iluminación de estudio) basada en esta descripción: " + req.ImagePrompt
	return s.ai.GenerateImage(ctx, refImage, mimeType, prompt)
}

// styleInstruction returns the mutually exclusive instruction block for
// a video style. Unknown styles get the generic block (empty here; the
// master prompt already carries the general continuity rules).
func styleInstruction(style models.VideoStyle) string {
	switch style {
	case models.StyleCinematic3D:
		return `ESTRATEGIA ESPECIAL ACTIVADA: "VIDEO CINEMATOGRÁFICO 3D DE PRODUCTO" (Estilo Apple/Nike Reveal).
Actúa como un director creativo experto en Motion Graphics 3D y VFX de Alta Gama.

DIRECTRICES VISUALES ESPECÍFICAS (CINEMATIC 3D):
1. ESTILO: 3D Render Ultra Realista (Tipo Octane Render, Unreal Engine 5, Blender Cycles).
2. ENTORNO: Fondos abstractos premium, limpios, colores sólidos mate o voids negros/blancos con iluminación volumétrica. NO uses locaciones reales como "cocina" o "parque". Todo es ESTUDIO VIRTUAL.
3. COMPORTAMIENTO DEL PRODUCTO: Flotando, girando suavemente, despiece (exploded view) de componentes, levitación magnética.
4. CÁMARA: Movimientos ultra suaves, Dolly in lento, Orbit 360, Macro extremo a texturas.
5. PROMPTS (grokPrompt & imagePrompt): DEBEN incluir palabras clave obligatorias: "3D render, octane render, unreal engine 5, 8k, hyper realistic, studio lighting, depth of field, bokeh, glossy finish, product visualization".
6. TEXTO EN PANTALLA: Minimalista, futurista, sans-serif, muy corto (Max 5 palabras).
7. E-COMMERCE: Resalta 3 beneficios clave visualmente.
NOTA: Ignora las reglas de "personaje único" de otras estrategias. Aquí el ÚNICO personaje es el PRODUCTO.`

	case models.StyleCinematicLifestyle:
		return `ESTRATEGIA ESPECIAL ACTIVADA: "USO DE PRODUCTO ESTILO DE VIDA CINEMATOGRÁFICO" (Cinematic Lifestyle).
Actúa como un Director de Cine Publicitario especializado en Fashion/Lifestyle (Estilo Zara, Nike, Sony).

DIRECTRICES VISUALES ESPECÍFICAS (LIFESTYLE):
1. CONCEPTO: Video aspiracional donde una persona real usa el producto en su rutina diaria (caminar por la ciudad, entrenar, viajar).
2. ESTÉTICA: "Aesthetic", Cámara Lenta (Slow Motion), Iluminación natural cinematográfica (Golden Hour, Blue Hour, Neon City), poca profundidad de campo (Bokeh).
3. CONTINUIDAD ABSOLUTA: Define UN solo protagonista y UN entorno coherente. Repite la MISMA descripción textual del protagonista y del entorno en CADA prompt de CADA escena.
4. CÁMARA: Handheld suave, seguimiento, primeros planos emocionales.
5. IMPORTANTE (grokPrompt): Para esta estrategia, el campo 'grokPrompt' DEBE ESTAR EN INGLÉS y optimizado para herramientas de video AI (Sora, Runway, Kling). Estructura: "Cinematic shot of [Person Description] using [Product Name], [Action], [Environment], shallow depth of field, 4k, slow motion, soft lighting".
6. ENFOQUE VENTA: Comodidad, libertad, integración en la vida diaria.`

	default:
		return ""
	}
}

func buildVideoPrompt(req models.GenerateScriptRequest) string {
	var b strings.Builder

	b.WriteString("Actúa como un Director de Cine Publicitario y Experto en Videos Virales para TikTok/Reels y VFX Artist.\n\n")
	b.WriteString("CONTEXTO DEL PRODUCTO:\n")
	fmt.Fprintf(&b, "- Nombre: %q\n", req.ProductName)
	fmt.Fprintf(&b, "- Precio: \"S/. %s\"\n", req.Price)
	fmt.Fprintf(&b, "- Descripción: %q\n", req.Description)
	fmt.Fprintf(&b, "- ESTRATEGIA: %q\n", req.Style)
	b.WriteString("- IMAGEN REFERENCIA: (Ver adjunto)\n\n")

	if special := styleInstruction(req.Style); special != "" {
		b.WriteString(special)
		b.WriteString("\n\n")
	}

	b.WriteString(`TU TAREA:
Crear un Guion Técnico Detallado para un video vertical (9:16) con MÍNIMO 30 SEGUNDOS de duración total.

REGLA SUPREMA: COHERENCIA Y CONTINUIDAD VISUAL (CONTINUITY).
Este es un ÚNICO video filmado en una sola locación o set. NO es una colección de clips de stock aleatorios.
1. PERSONAJE ÚNICO (Si aplica): Si hay un actor, debe ser SIEMPRE el mismo. Describe sus rasgos y REPITE esta descripción exacta en CADA prompt de CADA escena.
2. LOCACIÓN ÚNICA: Define un entorno maestro al inicio y mantenlo constante en todo el video.
3. PRODUCTO: El producto debe verse consistente. Usa la imagen de referencia como verdad absoluta.

REGLAS ESTRICTAS DE FORMATO:
1. DURACIÓN MÍNIMA TOTAL: 30 Segundos (MÍNIMO 5 ESCENAS de 6 segundos c/u).
2. DURACIÓN POR ESCENA: Exactamente 6 segundos.
3. IDIOMA: Todo el output en ESPAÑOL, EXCEPTO el campo 'grokPrompt' si la estrategia especifica inglés.
4. FORMATO SALIDA: JSON Array Estricto.
5. EFECTOS VISUALES: Prioriza una retención alta. Pide muchos efectos, transiciones y dinamismo.

ESTRUCTURA DEL CAMPO 'grokPrompt' (Para Video - Prompt Temporal):
"Segundos 0-2: [Acción inicial]. Segundos 3-6: [Acción siguiente]."
Reitera explícitamente el entorno y el personaje en cada uno.

ESTRUCTURA DEL CAMPO 'imagePrompt' (Para IMAGEN Estática del Frame 1):
Describe en ESPAÑOL la imagen estática inicial de la escena. DEBE INCLUIR SIEMPRE la descripción física del personaje (si hay), el entorno, la iluminación (coherentes con la escena anterior) y la acción del momento.

ESTRUCTURA DEL OBJETO JSON:
{
    "id": number (0, 1, 2, 3, 4...),
    "timeRange": string (e.g. "00:00 - 00:06"),
    "visualDescription": string (Narrativa general),
    "cameraMovement": string (Técnico),
    "lighting": string,
    "grokPrompt": string (Prompt para VIDEO),
    "imagePrompt": string (Prompt para IMAGEN - Estático con Coherencia)
}`)

	return b.String()
}

// fallbackSegments is the deterministic five-scene template covering
// exactly 30 seconds.
func fallbackSegments(product, price string) []models.VideoSegment {
	segments := []models.VideoSegment{
		{
			VisualDescription: "Gancho: Primer plano impactante.",
			CameraMovement:    "Rotación Rápida",
			Lighting:          "Estudio",
			VideoPrompt:       fmt.Sprintf("Segundos 0-2: Usando la imagen de referencia, mostrar primer plano del %s con destellos de luz. Segundos 3-6: El producto gira 180 grados con efecto de desenfoque de movimiento.", product),
			ImagePrompt:       fmt.Sprintf("Imagen estática de primer plano de %s con iluminación de estudio, alta resolución 4k.", product),
		},
		{
			VisualDescription: "Problema: Mostrar frustración usuario.",
			CameraMovement:    "Cámara en mano",
			Lighting:          "Tenue",
			VideoPrompt:       "Segundos 0-2: Persona intentando usar un método antiguo y fallando. Segundos 3-6: Transición 'Glitch' hacia el producto nuevo.",
			ImagePrompt:       "Persona mostrando frustración en un entorno doméstico, iluminación tenue y realista.",
		},
		{
			VisualDescription: "Solución: El producto en acción.",
			CameraMovement:    "Macro",
			Lighting:          "Brillante",
			VideoPrompt:       fmt.Sprintf("Segundos 0-2: Primer plano macro de la textura del %s. Segundos 3-6: Partículas mágicas rodean el producto demostrando su eficacia.", product),
			ImagePrompt:       fmt.Sprintf("Primer plano macro detallado de la textura de %s, iluminación brillante.", product),
		},
		{
			VisualDescription: "Beneficio Clave.",
			CameraMovement:    "Dolly In",
			Lighting:          "Natural",
			VideoPrompt:       fmt.Sprintf("Segundos 0-2: Usuario sonriendo usando el producto. Segundos 3-6: Texto flotante 3D aparece indicando el precio S/. %s.", price),
			ImagePrompt:       fmt.Sprintf("Usuario feliz usando %s en un entorno natural con luz de día.", product),
		},
		{
			VisualDescription: "CTA Final.",
			CameraMovement:    "Estático",
			Lighting:          "Alto Contraste",
			VideoPrompt:       "Segundos 0-2: Bodegón final del producto con fondo limpio. Segundos 3-6: Flecha animada neón señala hacia abajo 'Compra Ahora'.",
			ImagePrompt:       fmt.Sprintf("Bodegón estético de %s sobre fondo minimalista, iluminación de alto contraste.", product),
		},
	}

	for i := range segments {
		segments[i].ID = i
		segments[i].TimeRange = models.TimeRangeFor(i)
	}
	return segments
}
