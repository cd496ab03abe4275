package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

const questionColumns = "id, question_text, options, correct_answer_index, explanation, chapter, lesson, question_image_id, option_image_ids"

// QuestionRepository — реализация storage.QuestionStore поверх PostgreSQL.
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository создает новый экземпляр QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// AddQuestion сохраняет вопрос и возвращает его id.
func (r *QuestionRepository) AddQuestion(ctx context.Context, q *model.Question) (int, error) {
	// nil-срез должен попасть в базу как NULL, а не как jsonb "null".
	var optionImages any
	if q.OptionImageIDs != nil {
		optionImages = q.OptionImageIDs
	}

	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (question_text, options, correct_answer_index, explanation, chapter, lesson, question_image_id, option_image_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, q.Text, q.Options, q.CorrectAnswerIndex, q.Explanation, q.Chapter, q.Lesson, q.QuestionImageID, optionImages).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add question: %w", err)
	}
	return id, nil
}

// GetQuestionByID возвращает вопрос по id.
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id int) (*model.Question, error) {
	row := r.db.QueryRow(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = $1", id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return q, nil
}

// GetRandomQuestion выбирает равновероятно один вопрос среди подходящих под фильтр.
// Условия собираются только через плейсхолдеры.
func (r *QuestionRepository) GetRandomQuestion(ctx context.Context, f storage.QuestionFilter) (*model.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions"
	var conditions []string
	var params []any

	if f.Chapter != nil {
		params = append(params, *f.Chapter)
		conditions = append(conditions, "chapter = $"+strconv.Itoa(len(params)))
	}
	if f.Lesson != nil {
		params = append(params, *f.Lesson)
		conditions = append(conditions, "lesson = $"+strconv.Itoa(len(params)))
	}
	if len(f.ExcludeIDs) > 0 {
		params = append(params, f.ExcludeIDs)
		conditions = append(conditions, "NOT (id = ANY($"+strconv.Itoa(len(params))+"))")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY RANDOM() LIMIT 1"

	row := r.db.QueryRow(ctx, query, params...)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get random question: %w", err)
	}
	return q, nil
}

// DeleteQuestion удаляет вопрос; записи ответов удаляются каскадом.
// Сначала проверяется существование, чтобы вернуть честный результат.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) (bool, error) {
	if _, err := r.GetQuestionByID(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if _, err := r.db.Exec(ctx, "DELETE FROM questions WHERE id = $1", id); err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}
	return true, nil
}

// Chapters возвращает отсортированные названия глав.
func (r *QuestionRepository) Chapters(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT chapter FROM questions WHERE chapter IS NOT NULL ORDER BY chapter")
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// Lessons возвращает отсортированные названия уроков, при непустом chapter — внутри главы.
func (r *QuestionRepository) Lessons(ctx context.Context, chapter *string) ([]string, error) {
	query := "SELECT DISTINCT lesson FROM questions WHERE lesson IS NOT NULL"
	var params []any
	if chapter != nil {
		query += " AND chapter = $1"
		params = append(params, *chapter)
	}
	query += " ORDER BY lesson"

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// QuestionsByChapter возвращает вопросы главы по возрастанию id.
func (r *QuestionRepository) QuestionsByChapter(ctx context.Context, chapter string) ([]model.Question, error) {
	rows, err := r.db.Query(ctx, "SELECT "+questionColumns+" FROM questions WHERE chapter = $1 ORDER BY id", chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions by chapter: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// QuestionsByLesson возвращает вопросы урока по возрастанию id.
func (r *QuestionRepository) QuestionsByLesson(ctx context.Context, chapter, lesson string) ([]model.Question, error) {
	rows, err := r.db.Query(ctx, "SELECT "+questionColumns+" FROM questions WHERE chapter = $1 AND lesson = $2 ORDER BY id", chapter, lesson)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions by lesson: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectAnswerIndex, &q.Explanation, &q.Chapter, &q.Lesson, &q.QuestionImageID, &q.OptionImageIDs)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return questions, nil
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return values, nil
}
