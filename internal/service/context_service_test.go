package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gemini-chat/internal/domain"
)

func TestHistoryWindow_Messages(t *testing.T) {
	t.Run("pocos mensajes", func(t *testing.T) {
		now := time.Now()
		repo := &memoryMessageRepo{msgs: []domain.Message{
			{Username: "u1", Role: "user", Text: "hola", Timestamp: now.Add(-3 * time.Minute)},
			{Username: "u1", Role: "model", Text: "hola, ¿cómo estás?", Timestamp: now.Add(-2 * time.Minute)},
			{Username: "u1", Role: "user", Text: "bien", Timestamp: now.Add(-1 * time.Minute)},
		}}
		w := NewHistoryWindow(repo, 10)

		msgs, err := w.Messages(context.Background(), "u1")
		turns := ToTurns(msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []domain.Turn{
			{Role: "user", Text: "hola"},
			{Role: "model", Text: "hola, ¿cómo estás?"},
			{Role: "user", Text: "bien"},
		}
		if len(turns) != len(want) {
			t.Fatalf("expected %d turns, got %+v", len(want), turns)
		}
		for i := range want {
			if turns[i] != want[i] {
				t.Fatalf("turn %d: expected %+v, got %+v", i, want[i], turns[i])
			}
		}
	})

	t.Run("muchos mensajes recorta a 10", func(t *testing.T) {
		repo := &memoryMessageRepo{}
		seedMessages(repo, "u1", 15)
		w := NewHistoryWindow(repo, 10)

		msgs, err := w.Messages(context.Background(), "u1")
		turns := ToTurns(msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(turns) != 10 {
			t.Fatalf("expected 10 turns, got %d", len(turns))
		}
		if turns[0].Text != "msg6" || turns[len(turns)-1].Text != "msg15" {
			t.Fatalf("expected window msg6..msg15, got %s ... %s", turns[0].Text, turns[len(turns)-1].Text)
		}
	})

	t.Run("roles desconocidos pasan a model", func(t *testing.T) {
		repo := &memoryMessageRepo{msgs: []domain.Message{
			{Username: "u1", Role: "assistant", Text: "legado", Timestamp: time.Now()},
		}}
		msgs, err := NewHistoryWindow(repo, 10).Messages(context.Background(), "u1")
		turns := ToTurns(msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(turns) != 1 || turns[0].Role != domain.RoleModel {
			t.Fatalf("expected model role, got %+v", turns)
		}
	})

	t.Run("sin historial", func(t *testing.T) {
		msgs, err := NewHistoryWindow(&memoryMessageRepo{}, 10).Messages(context.Background(), "u1")
		turns := ToTurns(msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if turns == nil || len(turns) != 0 {
			t.Fatalf("expected empty turns, got %+v", turns)
		}
	})

	t.Run("error del repositorio", func(t *testing.T) {
		repoErr := errors.New("down")
		_, err := NewHistoryWindow(&memoryMessageRepo{listErr: repoErr}, 10).Messages(context.Background(), "u1")
		if !errors.Is(err, repoErr) {
			t.Fatalf("expected wrapped repo error, got %v", err)
		}
	})

	t.Run("tamaño por defecto", func(t *testing.T) {
		repo := &memoryMessageRepo{}
		_, _ = NewHistoryWindow(repo, 0).Messages(context.Background(), "u1")
		if repo.lastLimit != DefaultHistoryWindow {
			t.Fatalf("expected default window %d, got %d", DefaultHistoryWindow, repo.lastLimit)
		}
	})
}

// Un backend que ignore el límite no debe agrandar la ventana.
type unboundedRepo struct{ memoryMessageRepo }

func (u *unboundedRepo) ListRecent(ctx context.Context, username string, _ int, order domain.SortOrder) ([]domain.Message, error) {
	return u.memoryMessageRepo.ListRecent(ctx, username, 0, order)
}

func TestHistoryWindow_ClampsOversizedResult(t *testing.T) {
	repo := &unboundedRepo{}
	seedMessages(&repo.memoryMessageRepo, "u1", 8)

	msgs, err := NewHistoryWindow(repo, 4).Messages(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 4 || msgs[0].Text != "msg5" || msgs[3].Text != "msg8" {
		t.Fatalf("expected msg5..msg8, got %+v", msgs)
	}
}
