package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gemini-chat/internal/domain"
)

// MessageRepository es el adaptador del historial: un log ordenado de mensajes por usuario.
// No existe operación de actualización ni de borrado.
type MessageRepository interface {
	// Append escribe uno o más mensajes de forma durable.
	Append(ctx context.Context, messages ...domain.Message) error
	// ListRecent devuelve como máximo limit mensajes de username (limit <= 0 no acota).
	// NewestFirst toma los más recientes; OldestFirst los más antiguos.
	ListRecent(ctx context.Context, username string, limit int, order domain.SortOrder) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Append(ctx context.Context, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	const query = `
		INSERT INTO chat_messages (id, username, role, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// Un batch de pgx viaja en una única transacción implícita.
	batch := &pgx.Batch{}
	for _, msg := range messages {
		id := msg.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(query, id, msg.Username, msg.Role, msg.Text, msg.Timestamp)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert messages: %w", err)
	}
	return nil
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, username string, limit int, order domain.SortOrder) ([]domain.Message, error) {
	const newestFirst = `
		SELECT id, username, role, text, created_at
		FROM chat_messages
		WHERE username = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`
	const oldestFirst = `
		SELECT id, username, role, text, created_at
		FROM chat_messages
		WHERE username = $1
		ORDER BY created_at ASC, seq ASC
		LIMIT $2
	`

	query := newestFirst
	if order == domain.OldestFirst {
		query = oldestFirst
	}

	// LIMIT NULL equivale a LIMIT ALL.
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.pool.Query(ctx, query, username, limitArg)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Username,
			&msg.Role,
			&msg.Text,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
