package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

func strPtr(s string) *string { return &s }

func seedQuestion(t *testing.T, store *Store, chapter string) int {
	t.Helper()
	id, err := store.AddQuestion(context.Background(), &model.Question{
		Text:               "Вопрос",
		Options:            []string{"A", "B"},
		CorrectAnswerIndex: 0,
		Chapter:            strPtr(chapter),
	})
	require.NoError(t, err)
	return id
}

func TestDeleteQuestionCascadesAnswers(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	questionID := seedQuestion(t, store, "Основы")

	sessionID, err := store.CreateSession(ctx, &model.QuizSession{
		UserID: 1, QuizType: model.QuizTypeRandom,
		StartTime: time.Now(), TotalQuestions: 1,
	})
	require.NoError(t, err)
	require.NoError(t, store.AppendAnswer(ctx, &model.AnswerRecord{
		QuizHistoryID: sessionID, QuestionID: questionID,
		IsCorrect: false, AnswerTime: time.Now(),
	}))

	ok, err := store.DeleteQuestion(ctx, questionID)
	require.NoError(t, err)
	require.True(t, ok)

	answers, err := store.SessionAnswers(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, answers)

	// повторное удаление — false без ошибки
	ok, err = store.DeleteQuestion(ctx, questionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSessionCascadesAnswers(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	questionID := seedQuestion(t, store, "Основы")

	sessionID, err := store.CreateSession(ctx, &model.QuizSession{
		UserID: 1, QuizType: model.QuizTypeRandom,
		StartTime: time.Now(), TotalQuestions: 1,
	})
	require.NoError(t, err)
	require.NoError(t, store.AppendAnswer(ctx, &model.AnswerRecord{
		QuizHistoryID: sessionID, QuestionID: questionID,
		IsCorrect: true, AnswerTime: time.Now(),
	}))

	ok, err := store.DeleteSession(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = store.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	answers, err := store.SessionAnswers(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestGetRandomQuestionRespectsChapterFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedQuestion(t, store, "Кислоты")
	wanted := seedQuestion(t, store, "Основы")

	for i := 0; i < 20; i++ {
		q, err := store.GetRandomQuestion(ctx, storage.QuestionFilter{Chapter: strPtr("Основы")})
		require.NoError(t, err)
		assert.Equal(t, wanted, q.ID)
	}
}

func TestUpsertUserKeepsCreatedAt(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return first })
	require.NoError(t, store.UpsertUser(ctx, 42, "user", "Имя", ""))

	later := first.AddDate(0, 0, 20)
	store.SetNow(func() time.Time { return later })
	require.NoError(t, store.UpsertUser(ctx, 42, "user", "Имя", ""))

	// created_at остался в прошлом, last_active обновился
	total, err := store.TotalUsers(ctx, model.FilterLast7Days)
	require.NoError(t, err)
	assert.Zero(t, total)

	active, err := store.ActiveUsers(ctx, model.FilterLast7Days)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	ids, err := store.AllUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, ids)
}

func TestMessages(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.GetMessageByKey(ctx, "welcome_message")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, store.SetMessage(ctx, "welcome_message", "Привет"))
	require.NoError(t, store.SetMessage(ctx, "welcome_message", "Привет!"))

	text, err := store.GetMessageByKey(ctx, "welcome_message")
	require.NoError(t, err)
	assert.Equal(t, "Привет!", text)
}
