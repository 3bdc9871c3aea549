package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gemini-chat/internal/domain"
	"gemini-chat/internal/llm"
	"gemini-chat/internal/repository"
)

// ChatConfig agrupa los límites de historial del orquestador.
type ChatConfig struct {
	// HistoryWindow es la cantidad de mensajes previos enviados como contexto.
	HistoryWindow int
	// HistoryLimit acota History; <= 0 devuelve el log completo.
	HistoryLimit int
}

// ChatService orquesta un intercambio: lee la ventana de historial, llama al generador
// y persiste el mensaje del usuario y la respuesta.
type ChatService struct {
	logger       *zap.Logger
	messageRepo  repository.MessageRepository
	generator    llm.Generator
	window       *HistoryWindow
	locker       UserLocker
	historyLimit int
	now          func() time.Time
}

func NewChatService(
	logger *zap.Logger,
	messageRepo repository.MessageRepository,
	generator llm.Generator,
	locker UserLocker,
	cfg ChatConfig,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NoopUserLocker{}
	}
	return &ChatService{
		logger:       logger,
		messageRepo:  messageRepo,
		generator:    generator,
		window:       NewHistoryWindow(messageRepo, cfg.HistoryWindow),
		locker:       locker,
		historyLimit: cfg.HistoryLimit,
		now:          time.Now,
	}
}

// HandleChat procesa un mensaje y devuelve la respuesta del modelo.
//
// El mensaje del usuario se persiste antes de llamar al generador, así una falla del
// proveedor igual deja registrado el input. La respuesta se persiste solo si la llamada
// tuvo éxito. Una falla al leer el historial aborta sin escrituras ni llamada externa.
func (s *ChatService) HandleChat(ctx context.Context, username, message string) (string, error) {
	if s == nil || s.messageRepo == nil || s.generator == nil {
		return "", ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(username) == "" {
		return "", newChatError(KindValidation, "validate request", ErrUsernameRequired)
	}
	if strings.TrimSpace(message) == "" {
		return "", newChatError(KindValidation, "validate request", ErrMessageRequired)
	}

	unlock, err := s.locker.Lock(ctx, username)
	if err != nil {
		return "", newChatError(KindStorage, "acquire chat lock", err)
	}
	defer unlock()

	window, err := s.window.Messages(ctx, username)
	if err != nil {
		return "", newChatError(KindStorage, "fetch history", err)
	}
	turns := ToTurns(window)
	s.logger.Debug("history window loaded",
		zap.String("username", username),
		zap.Int("turns", len(turns)),
	)

	var latest time.Time
	if len(window) > 0 {
		latest = window[len(window)-1].Timestamp
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      domain.RoleUser,
		Text:      message,
		Timestamp: s.timestamp(latest),
	}
	if err := s.messageRepo.Append(ctx, userMsg); err != nil {
		return "", newChatError(KindStorage, "save user message", err)
	}

	reply, err := s.generator.Reply(ctx, turns, message)
	if err != nil {
		return "", newChatError(KindGeneration, "generate reply", err)
	}

	modelMsg := domain.Message{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      domain.RoleModel,
		Text:      reply,
		Timestamp: s.timestamp(userMsg.Timestamp),
	}
	if err := s.messageRepo.Append(ctx, modelMsg); err != nil {
		return "", newChatError(KindStorage, "save model message", err)
	}

	s.logger.Debug("chat exchange stored", zap.String("username", username))
	return reply, nil
}

// History devuelve el historial del usuario en orden cronológico.
func (s *ChatService) History(ctx context.Context, username string) ([]domain.Message, error) {
	if s == nil || s.messageRepo == nil {
		return nil, ErrChatServiceNotConfigured
	}

	if s.historyLimit <= 0 {
		messages, err := s.messageRepo.ListRecent(ctx, username, 0, domain.OldestFirst)
		if err != nil {
			return nil, newChatError(KindStorage, "fetch history", err)
		}
		return messages, nil
	}

	messages, err := s.messageRepo.ListRecent(ctx, username, s.historyLimit, domain.NewestFirst)
	if err != nil {
		return nil, newChatError(KindStorage, "fetch history", err)
	}
	reverseMessages(messages)
	return messages, nil
}

// timestamp devuelve la hora actual en UTC con precisión de milisegundos, estrictamente
// posterior a after. Mongo no guarda más que milisegundos.
func (s *ChatService) timestamp(after time.Time) time.Time {
	ts := s.now().UTC().Truncate(time.Millisecond)
	if !after.IsZero() && !ts.After(after) {
		ts = after.Add(time.Millisecond)
	}
	return ts
}
