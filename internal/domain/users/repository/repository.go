package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository — реализация storage.UserStore поверх PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser создает пользователя или обновляет его данные и last_active.
func (r *UserRepository) UpsertUser(ctx context.Context, userID int64, username, firstName, lastName string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name, created_at, last_active)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id)
		DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			last_active = CURRENT_TIMESTAMP
	`, userID, username, firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// AllUserIDs возвращает идентификаторы всех пользователей для рассылки.
func (r *UserRepository) AllUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT user_id FROM users ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return ids, nil
}
