package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

// SessionRepository — реализация storage.SessionStore поверх PostgreSQL.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession открывает сессию викторины и возвращает ее id.
func (r *SessionRepository) CreateSession(ctx context.Context, s *model.QuizSession) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO quiz_history (user_id, quiz_type, chapter, lesson, start_time, total_questions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.UserID, s.QuizType, s.Chapter, s.Lesson, s.StartTime, s.TotalQuestions).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create quiz session: %w", err)
	}
	return id, nil
}

// GetSession возвращает сессию по id.
func (r *SessionRepository) GetSession(ctx context.Context, id int) (*model.QuizSession, error) {
	var s model.QuizSession
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, quiz_type, chapter, lesson, start_time, end_time, total_questions, correct_answers, time_taken
		FROM quiz_history
		WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.QuizType, &s.Chapter, &s.Lesson, &s.StartTime, &s.EndTime, &s.TotalQuestions, &s.CorrectAnswers, &s.TimeTaken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz session: %w", err)
	}
	return &s, nil
}

// AppendAnswer добавляет запись ответа. Запись неизменяемая, обновлений нет.
func (r *SessionRepository) AppendAnswer(ctx context.Context, a *model.AnswerRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO quiz_answers (quiz_history_id, question_id, user_answer_index, is_correct, answer_time)
		VALUES ($1, $2, $3, $4, $5)
	`, a.QuizHistoryID, a.QuestionID, a.UserAnswerIndex, a.IsCorrect, a.AnswerTime)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

// CloseSession закрывает сессию. Возвращает false, если сессии нет.
func (r *SessionRepository) CloseSession(ctx context.Context, id int, endTime time.Time, correctAnswers, timeTaken int) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE quiz_history
		SET end_time = $1, correct_answers = $2, time_taken = $3
		WHERE id = $4
	`, endTime, correctAnswers, timeTaken, id)
	if err != nil {
		return false, fmt.Errorf("failed to close quiz session: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteSession удаляет сессию; записи ответов удаляются каскадом.
func (r *SessionRepository) DeleteSession(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM quiz_history WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz session: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
