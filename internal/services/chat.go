package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"seiso-backend/internal/models"
)

// ChatService runs the planner assistant. It keeps no state of its
// own; the caller owns the persisted history and passes it in whole.
type ChatService struct {
	ai *GeminiService
}

func NewChatService(ai *GeminiService) *ChatService {
	return &ChatService{ai: ai}
}

const chatSystemContext = "Eres SeisoBot, el asistente de marketing de Seiso Perú. Ayudas a planificar contenido para redes sociales, sugerir ideas de publicaciones y organizar el calendario editorial. Responde siempre en español, de forma breve y accionable."

const chatFallbackReply = "¡Entendido! He tomado nota. ¿Quieres que agende una idea de contenido en el calendario o prefieres que te sugiera algunos temas para esta semana?"

// Reply answers a planner message given the prior conversation. It
// never fails: without a provider, or on provider error, it returns a
// canned assistant reply.
func (s *ChatService) Reply(ctx context.Context, history []models.ChatMessage, message string) string {
	reply, err := s.ai.Chat(ctx, toGenaiHistory(history), message)
	if err != nil {
		if err != ErrUnavailable {
			log.Printf("planner chat failed, using canned reply: %v", err)
		}
		return chatFallbackReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return chatFallbackReply
	}
	return reply
}

// WantsScheduling reports whether a user message asks to put something
// on the calendar. Plain keyword check, intentionally loose.
func WantsScheduling(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "agendar") || strings.Contains(lower, "agenda") || strings.Contains(lower, "calendario")
}

// toGenaiHistory converts persisted chat turns into provider turns.
// The system context rides as the first user turn with a model ack so
// the transcript alternates correctly.
func toGenaiHistory(history []models.ChatMessage) []*genai.Content {
	contents := []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(chatSystemContext)}},
		{Role: "model", Parts: []genai.Part{genai.Text("Entendido. Soy SeisoBot, listo para ayudarte con tu marketing.")}},
	}
	for _, msg := range history {
		role := "user"
		if msg.Sender == "ai" {
			role = "model"
		}
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}
	return contents
}
