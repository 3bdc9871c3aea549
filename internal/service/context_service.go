package service

import (
	"context"
	"fmt"

	"gemini-chat/internal/domain"
	"gemini-chat/internal/repository"
)

const DefaultHistoryWindow = 10

// HistoryWindow obtiene los últimos mensajes del usuario y los entrega como turnos cronológicos.
// El corte es por cantidad de mensajes, no por intercambios: con un tamaño impar un par
// user/model puede quedar partido.
type HistoryWindow struct {
	messageRepo repository.MessageRepository
	size        int
}

func NewHistoryWindow(messageRepo repository.MessageRepository, size int) *HistoryWindow {
	if size <= 0 {
		size = DefaultHistoryWindow
	}
	return &HistoryWindow{messageRepo: messageRepo, size: size}
}

// Messages devuelve la ventana en orden cronológico.
func (w *HistoryWindow) Messages(ctx context.Context, username string) ([]domain.Message, error) {
	messages, err := w.messageRepo.ListRecent(ctx, username, w.size, domain.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	if len(messages) > w.size {
		messages = messages[:w.size]
	}
	reverseMessages(messages)
	return messages, nil
}

// ToTurns mapea mensajes almacenados a turnos del generador conservando el orden.
func ToTurns(messages []domain.Message) []domain.Turn {
	turns := make([]domain.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, domain.Turn{Role: domain.TurnRole(m.Role), Text: m.Text})
	}
	return turns
}

func reverseMessages(messages []domain.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
