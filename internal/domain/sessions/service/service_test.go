package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage/memory"
)

func newTestService() (*SessionService, *memory.Store) {
	store := memory.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionService(store, store, log), store
}

func addQuestion(t *testing.T, store *memory.Store) int {
	t.Helper()
	id, err := store.AddQuestion(context.Background(), &model.Question{
		Text:               "Формула воды?",
		Options:            []string{"H2O", "CO2"},
		CorrectAnswerIndex: 0,
	})
	require.NoError(t, err)
	return id
}

func TestStartValidatesQuestionCount(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Start(context.Background(), 1, model.QuizTypeRandom, nil, nil, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidQuestionCount)

	_, err = svc.Start(context.Background(), 1, model.QuizTypeRandom, nil, nil, -5)
	assert.ErrorIs(t, err, errs.ErrInvalidQuestionCount)
}

func TestRecordAnswer(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	questionID := addQuestion(t, store)

	sessionID, err := svc.Start(ctx, 1, model.QuizTypeRandom, nil, nil, 2)
	require.NoError(t, err)

	t.Run("correct answer", func(t *testing.T) {
		isCorrect, err := svc.RecordAnswer(ctx, sessionID, questionID, 0)
		require.NoError(t, err)
		assert.True(t, isCorrect)
	})

	t.Run("incorrect answer", func(t *testing.T) {
		isCorrect, err := svc.RecordAnswer(ctx, sessionID, questionID, 1)
		require.NoError(t, err)
		assert.False(t, isCorrect)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := svc.RecordAnswer(ctx, sessionID, questionID, 5)
		assert.ErrorIs(t, err, errs.ErrInvalidAnswer)
	})

	t.Run("missing question", func(t *testing.T) {
		_, err := svc.RecordAnswer(ctx, sessionID, 999, 0)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestEndComputesTimeTaken(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	sessionID, err := svc.Start(ctx, 1, model.QuizTypeRandom, nil, nil, 5)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(37 * time.Second) }

	ok, err := svc.End(ctx, sessionID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	session, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, session.Completed())
	require.NotNil(t, session.TimeTaken)
	assert.Equal(t, 37, *session.TimeTaken)
	require.NotNil(t, session.CorrectAnswers)
	assert.Equal(t, 4, *session.CorrectAnswers)
}

func TestEndMissingSession(t *testing.T) {
	svc, _ := newTestService()

	ok, err := svc.End(context.Background(), 999, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiscardRemovesSessionWithAnswers(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	questionID := addQuestion(t, store)

	sessionID, err := svc.Start(ctx, 1, model.QuizTypeRandom, nil, nil, 2)
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, sessionID, questionID, 0)
	require.NoError(t, err)

	ok, err := svc.Discard(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = store.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	answers, err := store.SessionAnswers(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}
