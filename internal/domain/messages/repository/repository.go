package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
)

// MessageRepository — реализация storage.MessageStore поверх PostgreSQL.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository создает новый экземпляр MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetMessageByKey возвращает текст сообщения по ключу.
func (r *MessageRepository) GetMessageByKey(ctx context.Context, key string) (string, error) {
	var text string
	err := r.db.QueryRow(ctx, "SELECT message_text FROM messages WHERE message_key = $1", key).
		Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", fmt.Errorf("failed to get message: %w", err)
	}
	return text, nil
}

// SetMessage создает или обновляет текст сообщения по ключу.
func (r *MessageRepository) SetMessage(ctx context.Context, key, text string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (message_key, message_text)
		VALUES ($1, $2)
		ON CONFLICT (message_key)
		DO UPDATE SET message_text = EXCLUDED.message_text
	`, key, text)
	if err != nil {
		return fmt.Errorf("failed to set message: %w", err)
	}
	return nil
}
