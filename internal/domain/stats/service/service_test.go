package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage/memory"
)

func strPtr(s string) *string { return &s }

func closedSession(t *testing.T, store *memory.Store, userID int64, chapter *string, start time.Time, correct, total int) {
	t.Helper()
	ctx := context.Background()
	id, err := store.CreateSession(ctx, &model.QuizSession{
		UserID:         userID,
		QuizType:       model.QuizTypeRandom,
		Chapter:        chapter,
		StartTime:      start,
		TotalQuestions: total,
	})
	require.NoError(t, err)
	_, err = store.CloseSession(ctx, id, start.Add(time.Minute), correct, 60)
	require.NoError(t, err)
}

func TestAverageCorrectRateIsWeighted(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return now })

	// 1/1 и 0/9: взвешенно 1/10 = 10%, а не среднее процентов (50%)
	closedSession(t, store, 1, nil, now.Add(-time.Hour), 1, 1)
	closedSession(t, store, 2, nil, now.Add(-time.Hour), 0, 9)

	rate, err := svc.AverageCorrectRate(context.Background(), model.FilterAllTime, nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, rate)
}

func TestAverageCorrectRateChapterFilter(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	now := time.Now()

	closedSession(t, store, 1, strPtr("Кислоты"), now.Add(-time.Hour), 8, 10)
	closedSession(t, store, 1, strPtr("Основы"), now.Add(-time.Hour), 1, 10)

	rate, err := svc.AverageCorrectRate(context.Background(), model.FilterAllTime, strPtr("Кислоты"))
	require.NoError(t, err)
	assert.Equal(t, 80.0, rate)
}

func TestSummaryEmptyStore(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)

	summary, err := svc.Summary(context.Background(), model.FilterAllTime)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalUsers)
	assert.Zero(t, summary.TotalQuizzes)
	assert.Zero(t, summary.AverageCorrectRate)
	assert.Zero(t, summary.CompletionRate)
	assert.Empty(t, summary.PopularUnits)
}

func TestSummaryTimeWindow(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return now })

	closedSession(t, store, 1, strPtr("Кислоты"), now.Add(-time.Hour), 5, 10)
	closedSession(t, store, 1, strPtr("Кислоты"), now.AddDate(0, 0, -20), 5, 10)

	summary, err := svc.Summary(context.Background(), model.FilterLast7Days)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalQuizzes)

	all, err := svc.Summary(context.Background(), model.FilterAllTime)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalQuizzes)
}

func TestCompletionRate(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	ctx := context.Background()
	now := time.Now()

	closedSession(t, store, 1, nil, now.Add(-time.Hour), 5, 10)
	_, err := store.CreateSession(ctx, &model.QuizSession{
		UserID: 1, QuizType: model.QuizTypeRandom,
		StartTime: now.Add(-time.Minute), TotalQuestions: 10,
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, model.FilterAllTime)
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.CompletionRate)
}

func TestQuestionDifficultyTieBreakByAttempts(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	ctx := context.Background()
	now := time.Now()

	q1, err := store.AddQuestion(ctx, &model.Question{Text: "Первый", Options: []string{"A", "B"}})
	require.NoError(t, err)
	q2, err := store.AddQuestion(ctx, &model.Question{Text: "Второй", Options: []string{"A", "B"}})
	require.NoError(t, err)

	sessionID, err := store.CreateSession(ctx, &model.QuizSession{
		UserID: 1, QuizType: model.QuizTypeRandom, StartTime: now, TotalQuestions: 3,
	})
	require.NoError(t, err)

	// оба вопроса на 0% правильных, у второго больше попыток
	for _, rec := range []model.AnswerRecord{
		{QuizHistoryID: sessionID, QuestionID: q1, IsCorrect: false, AnswerTime: now},
		{QuizHistoryID: sessionID, QuestionID: q2, IsCorrect: false, AnswerTime: now},
		{QuizHistoryID: sessionID, QuestionID: q2, IsCorrect: false, AnswerTime: now},
	} {
		rec := rec
		require.NoError(t, store.AppendAnswer(ctx, &rec))
	}

	hardest, err := svc.QuestionDifficulty(ctx, model.FilterAllTime, 5, false)
	require.NoError(t, err)
	require.Len(t, hardest, 2)
	assert.Equal(t, q2, hardest[0].QuestionID)
	assert.Equal(t, 2, hardest[0].Attempts)
}

func TestUnitDifficultyDirection(t *testing.T) {
	store := memory.NewStore()
	svc := NewStatsService(store)
	now := time.Now()

	closedSession(t, store, 1, strPtr("Кислоты"), now.Add(-time.Hour), 2, 10)
	closedSession(t, store, 1, strPtr("Основы"), now.Add(-time.Hour), 9, 10)

	hardest, err := svc.UnitDifficulty(context.Background(), model.FilterAllTime, 5, false)
	require.NoError(t, err)
	require.Len(t, hardest, 2)
	assert.Equal(t, "Кислоты", hardest[0].Unit)
	assert.Equal(t, 20.0, hardest[0].ScorePercent)

	easiest, err := svc.UnitDifficulty(context.Background(), model.FilterAllTime, 5, true)
	require.NoError(t, err)
	assert.Equal(t, "Основы", easiest[0].Unit)
}
