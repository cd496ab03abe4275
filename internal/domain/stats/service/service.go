package service

import (
	"context"
	"fmt"
	"math"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// Число строк в топах разделов и вопросов.
const defaultTopLimit = 5

// StatsService считает сводную статистику использования бота.
type StatsService struct {
	store storage.StatsStore
}

// NewStatsService создает новый экземпляр StatsService
func NewStatsService(store storage.StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Summary — сводка за временное окно для админского отчета.
type Summary struct {
	Filter                model.TimeFilter
	TotalUsers            int
	ActiveUsers           int
	TotalQuizzes          int
	AverageQuizzesPerUser float64
	AverageCorrectRate    float64
	AverageCompletionTime float64
	CompletionRate        float64
	PopularUnits          []model.UnitActivity
	HardestUnits          []model.UnitScore
	EasiestUnits          []model.UnitScore
	HardestQuestions      []model.QuestionScore
	EasiestQuestions      []model.QuestionScore
}

// Summary собирает все агрегаты за окно. Нулевые знаменатели дают нули.
func (s *StatsService) Summary(ctx context.Context, f model.TimeFilter) (*Summary, error) {
	summary := &Summary{Filter: f}
	var err error

	if summary.TotalUsers, err = s.store.TotalUsers(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if summary.ActiveUsers, err = s.store.ActiveUsers(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if summary.TotalQuizzes, err = s.store.TotalQuizzes(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}

	avgQuizzes, err := s.store.AverageQuizzesPerUser(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average quizzes per user: %w", err)
	}
	summary.AverageQuizzesPerUser = round2(avgQuizzes)

	rate, err := s.AverageCorrectRate(ctx, f, nil)
	if err != nil {
		return nil, err
	}
	summary.AverageCorrectRate = rate

	avgTime, err := s.store.AverageCompletionTime(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average completion time: %w", err)
	}
	summary.AverageCompletionTime = round2(avgTime)

	completion, err := s.store.CompletionRate(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to compute completion rate: %w", err)
	}
	summary.CompletionRate = round2(completion)

	if summary.PopularUnits, err = s.store.PopularUnits(ctx, f, defaultTopLimit); err != nil {
		return nil, fmt.Errorf("failed to load popular units: %w", err)
	}
	if summary.HardestUnits, err = s.UnitDifficulty(ctx, f, defaultTopLimit, false); err != nil {
		return nil, err
	}
	if summary.EasiestUnits, err = s.UnitDifficulty(ctx, f, defaultTopLimit, true); err != nil {
		return nil, err
	}
	if summary.HardestQuestions, err = s.QuestionDifficulty(ctx, f, defaultTopLimit, false); err != nil {
		return nil, err
	}
	if summary.EasiestQuestions, err = s.QuestionDifficulty(ctx, f, defaultTopLimit, true); err != nil {
		return nil, err
	}
	return summary, nil
}

// AverageCorrectRate — взвешенный процент правильных ответов:
// sum(correct)/sum(total)*100 по завершенным сессиям, не среднее процентов.
func (s *StatsService) AverageCorrectRate(ctx context.Context, f model.TimeFilter, chapter *string) (float64, error) {
	rate, err := s.store.AverageCorrectRate(ctx, f, chapter)
	if err != nil {
		return 0, fmt.Errorf("failed to compute average correct rate: %w", err)
	}
	return round2(rate), nil
}

// UnitDifficulty возвращает разделы по сложности с округленными процентами.
func (s *StatsService) UnitDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.UnitScore, error) {
	units, err := s.store.UnitDifficulty(ctx, f, limit, easiest)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit difficulty: %w", err)
	}
	for i := range units {
		units[i].ScorePercent = round2(units[i].ScorePercent)
	}
	return units, nil
}

// QuestionDifficulty возвращает вопросы по сложности с округленными процентами.
func (s *StatsService) QuestionDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.QuestionScore, error) {
	questions, err := s.store.QuestionDifficulty(ctx, f, limit, easiest)
	if err != nil {
		return nil, fmt.Errorf("failed to load question difficulty: %w", err)
	}
	for i := range questions {
		questions[i].CorrectPercent = round2(questions[i].CorrectPercent)
	}
	return questions, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
