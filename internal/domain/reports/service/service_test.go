package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage/memory"
)

func TestScorePercentage(t *testing.T) {
	assert.Equal(t, 70.0, ScorePercentage(7, 10))
	assert.Equal(t, 100.0, ScorePercentage(10, 10))
	assert.Equal(t, 33.3, ScorePercentage(1, 3))
	assert.Equal(t, 66.7, ScorePercentage(2, 3))
	// нулевой знаменатель — 0, а не паника
	assert.Equal(t, 0.0, ScorePercentage(0, 0))
	assert.Equal(t, 0.0, ScorePercentage(3, -1))
}

func seedQuestion(t *testing.T, store *memory.Store, text string) int {
	t.Helper()
	id, err := store.AddQuestion(context.Background(), &model.Question{
		Text:               text,
		Options:            []string{"A", "B"},
		CorrectAnswerIndex: 0,
	})
	require.NoError(t, err)
	return id
}

func TestQuizReport(t *testing.T) {
	store := memory.NewStore()
	svc := NewReportService(store, store)
	ctx := context.Background()

	q1 := seedQuestion(t, store, "Первый вопрос")
	q2 := seedQuestion(t, store, "Второй вопрос")

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sessionID, err := store.CreateSession(ctx, &model.QuizSession{
		UserID:         42,
		QuizType:       model.QuizTypeRandom,
		StartTime:      start,
		TotalQuestions: 2,
	})
	require.NoError(t, err)

	// второй ответ записан раньше первого — отчет обязан отсортировать по времени
	require.NoError(t, store.AppendAnswer(ctx, &model.AnswerRecord{
		QuizHistoryID: sessionID, QuestionID: q2, UserAnswerIndex: 1,
		IsCorrect: false, AnswerTime: start.Add(40 * time.Second),
	}))
	require.NoError(t, store.AppendAnswer(ctx, &model.AnswerRecord{
		QuizHistoryID: sessionID, QuestionID: q1, UserAnswerIndex: 0,
		IsCorrect: true, AnswerTime: start.Add(10 * time.Second),
	}))

	ok, err := store.CloseSession(ctx, sessionID, start.Add(time.Minute), 1, 60)
	require.NoError(t, err)
	require.True(t, ok)

	report, err := svc.QuizReport(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, sessionID, report.QuizID)
	assert.Equal(t, int64(42), report.UserID)
	assert.Equal(t, 1, report.CorrectAnswers)
	assert.Equal(t, 60, report.TimeTaken)
	assert.Equal(t, 50.0, report.ScorePercentage)

	require.Len(t, report.Answers, 2)
	assert.Equal(t, q1, report.Answers[0].QuestionID)
	assert.Equal(t, "Первый вопрос", report.Answers[0].QuestionText)
	assert.True(t, report.Answers[0].IsCorrect)
	assert.Equal(t, q2, report.Answers[1].QuestionID)
}

func TestQuizReportMissingSession(t *testing.T) {
	store := memory.NewStore()
	svc := NewReportService(store, store)

	_, err := svc.QuizReport(context.Background(), 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserHistoryOrderAndLimit(t *testing.T) {
	store := memory.NewStore()
	svc := NewReportService(store, store)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		id, err := store.CreateSession(ctx, &model.QuizSession{
			UserID:         42,
			QuizType:       model.QuizTypeRandom,
			StartTime:      base.AddDate(0, 0, i),
			TotalQuestions: 10,
		})
		require.NoError(t, err)
		_, err = store.CloseSession(ctx, id, base.AddDate(0, 0, i).Add(time.Minute), 7, 60)
		require.NoError(t, err)
	}

	history, err := svc.UserHistory(ctx, 42, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// новые первыми
	assert.True(t, history[0].StartTime.After(history[1].StartTime))
	assert.Equal(t, 70.0, history[0].ScorePercentage)
}

func TestIncorrectQuestionsOrder(t *testing.T) {
	store := memory.NewStore()
	svc := NewReportService(store, store)
	ctx := context.Background()

	q1 := seedQuestion(t, store, "Один раз неверно")
	q2 := seedQuestion(t, store, "Дважды неверно")

	sessionID, err := store.CreateSession(ctx, &model.QuizSession{
		UserID: 42, QuizType: model.QuizTypeRandom,
		StartTime: time.Now(), TotalQuestions: 3,
	})
	require.NoError(t, err)

	for _, rec := range []model.AnswerRecord{
		{QuizHistoryID: sessionID, QuestionID: q1, IsCorrect: false, AnswerTime: time.Now()},
		{QuizHistoryID: sessionID, QuestionID: q2, IsCorrect: false, AnswerTime: time.Now()},
		{QuizHistoryID: sessionID, QuestionID: q2, IsCorrect: false, AnswerTime: time.Now()},
	} {
		rec := rec
		require.NoError(t, store.AppendAnswer(ctx, &rec))
	}

	questions, err := svc.IncorrectQuestions(ctx, 42, 10)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, q2, questions[0].ID)
	assert.Equal(t, 2, questions[0].ErrorCount)
	assert.Equal(t, q1, questions[1].ID)

	// чужие ошибки не попадают в выборку
	other, err := svc.IncorrectQuestions(ctx, 43, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
