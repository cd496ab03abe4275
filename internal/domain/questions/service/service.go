package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// QuestionService содержит логику работы с банком вопросов.
type QuestionService struct {
	store storage.QuestionStore
	log   *slog.Logger
}

// NewQuestionService создает новый экземпляр QuestionService
func NewQuestionService(store storage.QuestionStore, log *slog.Logger) *QuestionService {
	return &QuestionService{store: store, log: log}
}

// AddQuestion валидирует и сохраняет вопрос.
// Несовпадение длины списка картинок вариантов — не ошибка: список
// отбрасывается с предупреждением, вопрос сохраняется без него.
func (s *QuestionService) AddQuestion(ctx context.Context, q *model.Question) (int, error) {
	if len(q.Options) < 2 {
		return 0, fmt.Errorf("%w: need at least two options", errs.ErrInvalidQuestion)
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return 0, fmt.Errorf("%w: correct answer index %d out of range", errs.ErrInvalidQuestion, q.CorrectAnswerIndex)
	}
	if q.OptionImageIDs != nil && len(q.OptionImageIDs) != len(q.Options) {
		s.log.Warn("option image list length mismatch, dropping images",
			"options", len(q.Options), "images", len(q.OptionImageIDs))
		q.OptionImageIDs = nil
	}

	id, err := s.store.AddQuestion(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to add question: %w", err)
	}
	return id, nil
}

// GetByID возвращает вопрос; errs.ErrNotFound, если его нет.
func (s *QuestionService) GetByID(ctx context.Context, id int) (*model.Question, error) {
	return s.store.GetQuestionByID(ctx, id)
}

// GetRandom выбирает случайный вопрос под фильтр, никогда не возвращая
// исключенные id. errs.ErrNoQuestions, если подходящих нет.
func (s *QuestionService) GetRandom(ctx context.Context, chapter, lesson *string, excludeIDs []int) (*model.Question, error) {
	q, err := s.store.GetRandomQuestion(ctx, storage.QuestionFilter{
		Chapter:    chapter,
		Lesson:     lesson,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNoQuestions
		}
		return nil, fmt.Errorf("failed to get random question: %w", err)
	}
	return q, nil
}

// Delete удаляет вопрос. Возвращает false без ошибки для несуществующего id.
func (s *QuestionService) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.DeleteQuestion(ctx, id)
}

// Chapters возвращает названия доступных глав.
func (s *QuestionService) Chapters(ctx context.Context) ([]string, error) {
	return s.store.Chapters(ctx)
}

// Lessons возвращает названия доступных уроков, при непустом chapter — внутри главы.
func (s *QuestionService) Lessons(ctx context.Context, chapter *string) ([]string, error) {
	return s.store.Lessons(ctx, chapter)
}

// ByChapter возвращает вопросы главы по возрастанию id.
func (s *QuestionService) ByChapter(ctx context.Context, chapter string) ([]model.Question, error) {
	return s.store.QuestionsByChapter(ctx, chapter)
}

// ByLesson возвращает вопросы урока по возрастанию id.
func (s *QuestionService) ByLesson(ctx context.Context, chapter, lesson string) ([]model.Question, error) {
	return s.store.QuestionsByLesson(ctx, chapter, lesson)
}
