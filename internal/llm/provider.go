package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gemini-chat/internal/config"
	"gemini-chat/internal/domain"
)

// Generator define la interfaz del servicio generativo externo: recibe los turnos previos
// en orden cronológico y el mensaje nuevo, y devuelve una única respuesta de texto.
type Generator interface {
	Reply(ctx context.Context, history []domain.Turn, message string) (string, error)
}

// DryRunReply es la respuesta fija del proveedor mock.
const DryRunReply = "(dry-run) respuesta simulada"

// NewGenerator construye el proveedor configurado. El closer libera los recursos del cliente.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, func() error, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.LLMProviderOpenAI:
		client := NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
		return client, func() error { return nil }, nil
	case config.LLMProviderMock:
		return &MockClient{Response: DryRunReply}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownLLMProvider, cfg.LLMProvider)
	}
}
