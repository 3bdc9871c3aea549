package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gemini-chat/internal/domain"
)

// chatSender es la parte de *genai.ChatSession que usa Reply.
type chatSender interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implementa Generator con una sesión de chat de Gemini por llamada.
type GeminiClient struct {
	client    *genai.Client
	startChat func(history []*genai.Content) chatSender
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	gm := client.GenerativeModel(model)
	return &GeminiClient{
		client: client,
		startChat: func(history []*genai.Content) chatSender {
			cs := gm.StartChat()
			cs.History = history
			return cs
		},
	}, nil
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Reply abre una sesión con los turnos previos como historial y envía el mensaje nuevo como último turno.
func (c *GeminiClient) Reply(ctx context.Context, history []domain.Turn, message string) (string, error) {
	cs := c.startChat(buildGeminiHistory(history))

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini send message: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func buildGeminiHistory(history []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		contents = append(contents, &genai.Content{
			Role:  domain.TurnRole(t.Role),
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
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
