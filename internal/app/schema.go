package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements — идемпотентные CREATE TABLE IF NOT EXISTS.
// Существующие таблицы никогда не изменяются, вызов безопасен при каждом старте.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		username TEXT,
		first_name TEXT,
		last_name TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_active TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		message_key TEXT PRIMARY KEY,
		message_text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id SERIAL PRIMARY KEY,
		question_text TEXT NOT NULL,
		options JSONB NOT NULL,
		correct_answer_index INTEGER NOT NULL,
		explanation TEXT,
		chapter TEXT,
		lesson TEXT,
		question_image_id TEXT,
		option_image_ids JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_history (
		id SERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		quiz_type TEXT NOT NULL,
		chapter TEXT,
		lesson TEXT,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER,
		time_taken INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_answers (
		id SERIAL PRIMARY KEY,
		quiz_history_id INTEGER NOT NULL REFERENCES quiz_history(id) ON DELETE CASCADE,
		question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		user_answer_index INTEGER NOT NULL,
		is_correct BOOLEAN NOT NULL,
		answer_time TIMESTAMP NOT NULL
	)`,
}

// EnsureSchema создает таблицы бота, если их еще нет.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
