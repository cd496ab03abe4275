package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

// ReportRepository — реализация storage.ReportStore поверх PostgreSQL.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository создает новый экземпляр ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// SessionAnswers возвращает ответы сессии вместе с данными вопросов,
// упорядоченные по времени ответа.
func (r *ReportRepository) SessionAnswers(ctx context.Context, sessionID int) ([]model.ReportAnswer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT qa.question_id, qa.user_answer_index, qa.is_correct, qa.answer_time,
		       q.question_text, q.options, q.correct_answer_index, q.explanation
		FROM quiz_answers qa
		JOIN questions q ON qa.question_id = q.id
		WHERE qa.quiz_history_id = $1
		ORDER BY qa.answer_time
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session answers: %w", err)
	}
	defer rows.Close()

	var answers []model.ReportAnswer
	for rows.Next() {
		var a model.ReportAnswer
		if err := rows.Scan(&a.QuestionID, &a.UserAnswerIndex, &a.IsCorrect, &a.AnswerTime,
			&a.QuestionText, &a.Options, &a.CorrectAnswerIndex, &a.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return answers, nil
}

// UserSessions возвращает последние сессии пользователя, новые первыми.
func (r *ReportRepository) UserSessions(ctx context.Context, userID int64, limit int) ([]model.QuizSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, quiz_type, chapter, lesson, start_time, end_time, total_questions, correct_answers, time_taken
		FROM quiz_history
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.QuizSession
	for rows.Next() {
		var s model.QuizSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.QuizType, &s.Chapter, &s.Lesson, &s.StartTime,
			&s.EndTime, &s.TotalQuestions, &s.CorrectAnswers, &s.TimeTaken); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return sessions, nil
}

// IncorrectQuestions возвращает вопросы, на которые пользователь отвечал
// неверно: по убыванию числа ошибок, затем по возрастанию id.
func (r *ReportRepository) IncorrectQuestions(ctx context.Context, userID int64, limit int) ([]model.IncorrectQuestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.question_text, q.options, q.correct_answer_index,
		       q.explanation, q.chapter, q.lesson, q.question_image_id, q.option_image_ids,
		       COUNT(qa.id) AS error_count
		FROM questions q
		JOIN quiz_answers qa ON q.id = qa.question_id
		JOIN quiz_history qh ON qa.quiz_history_id = qh.id
		WHERE qh.user_id = $1 AND qa.is_correct = FALSE
		GROUP BY q.id
		ORDER BY error_count DESC, q.id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query incorrect questions: %w", err)
	}
	defer rows.Close()

	var questions []model.IncorrectQuestion
	for rows.Next() {
		var q model.IncorrectQuestion
		if err := rows.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectAnswerIndex,
			&q.Explanation, &q.Chapter, &q.Lesson, &q.QuestionImageID, &q.OptionImageIDs,
			&q.ErrorCount); err != nil {
			return nil, fmt.Errorf("failed to scan incorrect question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return questions, nil
}
