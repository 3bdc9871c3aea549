package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-chat/internal/domain"
)

var contractBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seedConversation(t *testing.T, repo MessageRepository, username string, n int) []domain.Message {
	t.Helper()
	var msgs []domain.Message
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleModel
		}
		msgs = append(msgs, domain.Message{
			Username:  username,
			Role:      role,
			Text:      fmt.Sprintf("msg%d", i+1),
			Timestamp: contractBase.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, repo.Append(context.Background(), msgs...))
	return msgs
}

func texts(msgs []domain.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

// runMessageRepositoryContract ejercita el mismo comportamiento sobre cualquier backend.
func runMessageRepositoryContract(t *testing.T, newRepo func(t *testing.T) MessageRepository) {
	ctx := context.Background()

	t.Run("usuario sin historial", func(t *testing.T) {
		repo := newRepo(t)
		out, err := repo.ListRecent(ctx, "nobody", 10, domain.NewestFirst)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("newest first acota a los mas recientes", func(t *testing.T) {
		repo := newRepo(t)
		seedConversation(t, repo, "alice", 5)
		seedConversation(t, repo, "bob", 2)

		out, err := repo.ListRecent(ctx, "alice", 3, domain.NewestFirst)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg5", "msg4", "msg3"}, texts(out))
		for _, m := range out {
			assert.Equal(t, "alice", m.Username)
			assert.NotEmpty(t, m.ID)
		}
	})

	t.Run("oldest first acota a los mas antiguos", func(t *testing.T) {
		repo := newRepo(t)
		seedConversation(t, repo, "alice", 5)

		out, err := repo.ListRecent(ctx, "alice", 2, domain.OldestFirst)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg1", "msg2"}, texts(out))
	})

	t.Run("limite cero devuelve todo", func(t *testing.T) {
		repo := newRepo(t)
		seedConversation(t, repo, "alice", 5)

		out, err := repo.ListRecent(ctx, "alice", 0, domain.OldestFirst)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg1", "msg2", "msg3", "msg4", "msg5"}, texts(out))

		out, err = repo.ListRecent(ctx, "alice", 0, domain.NewestFirst)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg5", "msg4", "msg3", "msg2", "msg1"}, texts(out))
	})

	t.Run("empate de timestamp respeta orden de insercion", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Append(ctx,
			domain.Message{Username: "carol", Role: domain.RoleUser, Text: "hola", Timestamp: contractBase},
			domain.Message{Username: "carol", Role: domain.RoleModel, Text: "buenas", Timestamp: contractBase},
		))

		out, err := repo.ListRecent(ctx, "carol", 10, domain.OldestFirst)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, domain.RoleUser, out[0].Role)
		assert.Equal(t, domain.RoleModel, out[1].Role)

		out, err = repo.ListRecent(ctx, "carol", 10, domain.NewestFirst)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, domain.RoleModel, out[0].Role)
	})

	t.Run("round trip preserva campos", func(t *testing.T) {
		repo := newRepo(t)
		in := domain.Message{
			Username:  "dave",
			Role:      domain.RoleModel,
			Text:      "línea 1\nlínea 2 ✓",
			Timestamp: contractBase,
		}
		require.NoError(t, repo.Append(ctx, in))

		out, err := repo.ListRecent(ctx, "dave", 1, domain.NewestFirst)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, in.Role, out[0].Role)
		assert.Equal(t, in.Text, out[0].Text)
		assert.True(t, in.Timestamp.Equal(out[0].Timestamp), "timestamp %s != %s", in.Timestamp, out[0].Timestamp)
	})

	t.Run("append vacio no falla", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Append(ctx))
	})
}
