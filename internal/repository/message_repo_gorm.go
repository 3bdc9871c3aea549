package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gemini-chat/internal/domain"
)

// gormMessage es el modelo de tabla para el backend embebido (sqlite).
type gormMessage struct {
	Seq       uint      `gorm:"primaryKey;autoIncrement"`
	MessageID string    `gorm:"column:message_id;uniqueIndex;size:36"`
	Username  string    `gorm:"index:idx_chat_messages_user_ts,priority:1;not null"`
	Role      string    `gorm:"size:16;not null"`
	Text      string    `gorm:"not null"`
	Timestamp time.Time `gorm:"index:idx_chat_messages_user_ts,priority:2;not null"`
}

func (gormMessage) TableName() string {
	return "chat_messages"
}

// GormMessageRepository implementa MessageRepository con gorm.
type GormMessageRepository struct {
	db *gorm.DB
	// SQLite admite un solo escritor a la vez.
	mu sync.Mutex
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Migrate crea la tabla de historial si no existe.
func (r *GormMessageRepository) Migrate() error {
	if err := r.db.AutoMigrate(&gormMessage{}); err != nil {
		return fmt.Errorf("migrate chat_messages: %w", err)
	}
	return nil
}

func (r *GormMessageRepository) Append(ctx context.Context, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	rows := make([]gormMessage, 0, len(messages))
	for _, msg := range messages {
		id := msg.ID
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, gormMessage{
			MessageID: id,
			Username:  msg.Username,
			Role:      msg.Role,
			Text:      msg.Text,
			Timestamp: msg.Timestamp.UTC(),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert messages: %w", err)
	}
	return nil
}

func (r *GormMessageRepository) ListRecent(ctx context.Context, username string, limit int, order domain.SortOrder) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("username = ?", username)
	if order == domain.OldestFirst {
		q = q.Order("timestamp ASC").Order("seq ASC")
	} else {
		q = q.Order("timestamp DESC").Order("seq DESC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []gormMessage
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, domain.Message{
			ID:        row.MessageID,
			Username:  row.Username,
			Role:      row.Role,
			Text:      row.Text,
			Timestamp: row.Timestamp.UTC(),
		})
	}
	return messages, nil
}
