package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

// StatsRepository — реализация storage.StatsStore поверх PostgreSQL.
// Временные окна подставляются фиксированными SQL-фрагментами из TimeFilter,
// все значения идут через плейсхолдеры.
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository создает новый экземпляр StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// TotalUsers возвращает число пользователей, зарегистрированных в окне.
func (r *StatsRepository) TotalUsers(ctx context.Context, f model.TimeFilter) (int, error) {
	return r.countQuery(ctx, "SELECT COUNT(*) FROM users WHERE 1=1"+f.Condition("created_at"))
}

// ActiveUsers возвращает число пользователей, активных в окне.
func (r *StatsRepository) ActiveUsers(ctx context.Context, f model.TimeFilter) (int, error) {
	return r.countQuery(ctx, "SELECT COUNT(*) FROM users WHERE 1=1"+f.Condition("last_active"))
}

// TotalQuizzes возвращает число начатых викторин в окне.
func (r *StatsRepository) TotalQuizzes(ctx context.Context, f model.TimeFilter) (int, error) {
	return r.countQuery(ctx, "SELECT COUNT(*) FROM quiz_history WHERE 1=1"+f.Condition("start_time"))
}

// AverageQuizzesPerUser — викторины на одного активного участника.
func (r *StatsRepository) AverageQuizzesPerUser(ctx context.Context, f model.TimeFilter) (float64, error) {
	query := `
		SELECT CASE
			WHEN COUNT(DISTINCT user_id) > 0 THEN CAST(COUNT(id) AS DECIMAL) / COUNT(DISTINCT user_id)
			ELSE 0
		END
		FROM quiz_history
		WHERE 1=1` + f.Condition("start_time")
	return r.floatQuery(ctx, query)
}

// AverageCorrectRate — взвешенный процент правильных ответов по завершенным
// сессиям: sum(correct)/sum(total)*100, а не среднее процентов.
func (r *StatsRepository) AverageCorrectRate(ctx context.Context, f model.TimeFilter, chapter *string) (float64, error) {
	query := `
		SELECT CASE
			WHEN SUM(total_questions) > 0
			THEN CAST(COALESCE(SUM(correct_answers), 0) AS DECIMAL) * 100.0 / SUM(total_questions)
			ELSE 0
		END
		FROM quiz_history
		WHERE end_time IS NOT NULL AND total_questions > 0` + f.Condition("start_time")
	var params []any
	if chapter != nil {
		query += " AND chapter = $1"
		params = append(params, *chapter)
	}
	return r.floatQuery(ctx, query, params...)
}

// PopularUnits — главы по убыванию числа викторин.
func (r *StatsRepository) PopularUnits(ctx context.Context, f model.TimeFilter, limit int) ([]model.UnitActivity, error) {
	query := `
		SELECT chapter, COUNT(*) AS quiz_count
		FROM quiz_history
		WHERE chapter IS NOT NULL` + f.Condition("start_time") + `
		GROUP BY chapter
		ORDER BY quiz_count DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular units: %w", err)
	}
	defer rows.Close()

	var units []model.UnitActivity
	for rows.Next() {
		var u model.UnitActivity
		if err := rows.Scan(&u.Unit, &u.QuizCount); err != nil {
			return nil, fmt.Errorf("failed to scan unit activity: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return units, nil
}

// UnitDifficulty — главы по взвешенному проценту правильных ответов.
// easiest=false означает «сложные первыми» (процент по возрастанию).
func (r *StatsRepository) UnitDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.UnitScore, error) {
	direction := "ASC"
	if easiest {
		direction = "DESC"
	}
	query := `
		SELECT chapter,
		       CAST(COALESCE(SUM(correct_answers), 0) AS DECIMAL) * 100.0 / SUM(total_questions) AS avg_score_percent
		FROM quiz_history
		WHERE end_time IS NOT NULL AND total_questions > 0 AND chapter IS NOT NULL` + f.Condition("start_time") + `
		GROUP BY chapter
		HAVING SUM(total_questions) > 0
		ORDER BY avg_score_percent ` + direction + `
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit difficulty: %w", err)
	}
	defer rows.Close()

	var units []model.UnitScore
	for rows.Next() {
		var u model.UnitScore
		if err := rows.Scan(&u.Unit, &u.ScorePercent); err != nil {
			return nil, fmt.Errorf("failed to scan unit score: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return units, nil
}

// QuestionDifficulty — вопросы по проценту правильных ответов, при равенстве
// процентов вперед идут вопросы с большим числом попыток.
func (r *StatsRepository) QuestionDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.QuestionScore, error) {
	direction := "ASC"
	if easiest {
		direction = "DESC"
	}
	query := `
		SELECT qa.question_id, q.question_text,
		       CAST(SUM(CASE WHEN qa.is_correct THEN 1 ELSE 0 END) AS DECIMAL) * 100.0 / COUNT(qa.id) AS correct_percentage,
		       COUNT(qa.id) AS attempts
		FROM quiz_answers qa
		JOIN questions q ON qa.question_id = q.id
		WHERE 1=1` + f.Condition("qa.answer_time") + `
		GROUP BY qa.question_id, q.question_text
		HAVING COUNT(qa.id) > 0
		ORDER BY correct_percentage ` + direction + `, attempts DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query question difficulty: %w", err)
	}
	defer rows.Close()

	var questions []model.QuestionScore
	for rows.Next() {
		var q model.QuestionScore
		if err := rows.Scan(&q.QuestionID, &q.QuestionText, &q.CorrectPercent, &q.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan question score: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return questions, nil
}

// AverageCompletionTime — средняя длительность завершенной викторины в секундах.
func (r *StatsRepository) AverageCompletionTime(ctx context.Context, f model.TimeFilter) (float64, error) {
	query := `
		SELECT COALESCE(AVG(time_taken), 0)
		FROM quiz_history
		WHERE end_time IS NOT NULL AND time_taken IS NOT NULL` + f.Condition("start_time")
	return r.floatQuery(ctx, query)
}

// CompletionRate — процент завершенных викторин среди начатых.
func (r *StatsRepository) CompletionRate(ctx context.Context, f model.TimeFilter) (float64, error) {
	query := `
		SELECT CASE
			WHEN COUNT(*) > 0
			THEN CAST(SUM(CASE WHEN end_time IS NOT NULL THEN 1 ELSE 0 END) AS DECIMAL) * 100.0 / COUNT(*)
			ELSE 0
		END
		FROM quiz_history
		WHERE 1=1` + f.Condition("start_time")
	return r.floatQuery(ctx, query)
}

func (r *StatsRepository) countQuery(ctx context.Context, query string, params ...any) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", err)
	}
	return count, nil
}

func (r *StatsRepository) floatQuery(ctx context.Context, query string, params ...any) (float64, error) {
	var value float64
	if err := r.db.QueryRow(ctx, query, params...).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to execute aggregate query: %w", err)
	}
	return value, nil
}
