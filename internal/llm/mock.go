package llm

import (
	"context"
	"sync"

	"gemini-chat/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real. Registra lo recibido en cada llamada.
type MockClient struct {
	Response string
	Err      error

	mu          sync.Mutex
	Calls       int
	LastHistory []domain.Turn
	LastMessage string
}

func (m *MockClient) Reply(ctx context.Context, history []domain.Turn, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastHistory = append([]domain.Turn(nil), history...)
	m.LastMessage = message
	return m.Response, m.Err
}
