package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"gemini-chat/internal/domain"
)

func TestBuildGeminiHistory_MapsRoles(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Text: "hola"},
		{Role: domain.RoleModel, Text: "buenas"},
		{Role: "assistant", Text: "legado"},
	}

	contents := buildGeminiHistory(history)
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	wantRoles := []string{"user", "model", "model"}
	for i, c := range contents {
		if c.Role != wantRoles[i] {
			t.Fatalf("content %d: expected role %q, got %q", i, wantRoles[i], c.Role)
		}
		if len(c.Parts) != 1 {
			t.Fatalf("content %d: expected 1 part, got %d", i, len(c.Parts))
		}
		if txt, ok := c.Parts[0].(genai.Text); !ok || string(txt) != history[i].Text {
			t.Fatalf("content %d: unexpected part %#v", i, c.Parts[0])
		}
	}
}

func TestBuildGeminiHistory_Empty(t *testing.T) {
	contents := buildGeminiHistory(nil)
	if contents == nil || len(contents) != 0 {
		t.Fatalf("expected empty non-nil history, got %+v", contents)
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("hola "), genai.Text("mundo")}}},
			{Content: nil},
		},
	}
	if got := extractText(resp); got != "hola mundo" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Fatalf("expected empty text for nil response, got %q", got)
	}
}

type fakeChatSession struct {
	history []*genai.Content
	parts   []genai.Part
	resp    *genai.GenerateContentResponse
	err     error
}

func (f *fakeChatSession) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func newFakeGeminiClient(session *fakeChatSession) *GeminiClient {
	return &GeminiClient{
		startChat: func(history []*genai.Content) chatSender {
			session.history = history
			return session
		},
	}
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiClientReply(t *testing.T) {
	t.Run("envia historial y mensaje nuevo", func(t *testing.T) {
		session := &fakeChatSession{resp: textResponse("Hi ", "Alice!")}
		c := newFakeGeminiClient(session)

		history := []domain.Turn{
			{Role: domain.RoleUser, Text: "hola"},
			{Role: domain.RoleModel, Text: "buenas"},
		}
		reply, err := c.Reply(context.Background(), history, "Hello")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if reply != "Hi Alice!" {
			t.Fatalf("unexpected reply %q", reply)
		}
		if len(session.history) != 2 || session.history[1].Role != "model" {
			t.Fatalf("unexpected session history %+v", session.history)
		}
		if len(session.parts) != 1 || session.parts[0] != genai.Text("Hello") {
			t.Fatalf("expected new message as the only part, got %#v", session.parts)
		}
	})

	t.Run("error del proveedor", func(t *testing.T) {
		sendErr := errors.New("quota exceeded")
		c := newFakeGeminiClient(&fakeChatSession{err: sendErr})

		_, err := c.Reply(context.Background(), nil, "Hello")
		if !errors.Is(err, sendErr) {
			t.Fatalf("expected wrapped send error, got %v", err)
		}
	})

	t.Run("sin candidatos", func(t *testing.T) {
		c := newFakeGeminiClient(&fakeChatSession{resp: &genai.GenerateContentResponse{}})

		_, err := c.Reply(context.Background(), nil, "Hello")
		if !errors.Is(err, ErrEmptyReply) {
			t.Fatalf("expected ErrEmptyReply, got %v", err)
		}
	})

	t.Run("respuesta en blanco", func(t *testing.T) {
		c := newFakeGeminiClient(&fakeChatSession{resp: textResponse("  ", "\n")})

		_, err := c.Reply(context.Background(), nil, "Hello")
		if !errors.Is(err, ErrEmptyReply) {
			t.Fatalf("expected ErrEmptyReply, got %v", err)
		}
	})
}
