package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage/memory"
)

func newTestService() (*QuestionService, *memory.Store) {
	store := memory.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuestionService(store, log), store
}

func strPtr(s string) *string { return &s }

func validQuestion() *model.Question {
	return &model.Question{
		Text:               "Формула воды?",
		Options:            []string{"H2O", "CO2", "NaCl"},
		CorrectAnswerIndex: 0,
		Chapter:            strPtr("Основы"),
		Lesson:             strPtr("Молекулы"),
	}
}

func TestAddQuestionValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("too few options", func(t *testing.T) {
		q := validQuestion()
		q.Options = []string{"H2O"}
		_, err := svc.AddQuestion(ctx, q)
		assert.ErrorIs(t, err, errs.ErrInvalidQuestion)
	})

	t.Run("correct index out of range", func(t *testing.T) {
		q := validQuestion()
		q.CorrectAnswerIndex = 3
		_, err := svc.AddQuestion(ctx, q)
		assert.ErrorIs(t, err, errs.ErrInvalidQuestion)

		q.CorrectAnswerIndex = -1
		_, err = svc.AddQuestion(ctx, q)
		assert.ErrorIs(t, err, errs.ErrInvalidQuestion)
	})

	t.Run("mismatched option images are dropped", func(t *testing.T) {
		q := validQuestion()
		q.OptionImageIDs = []string{"img1", "img2"} // вариантов три
		id, err := svc.AddQuestion(ctx, q)
		require.NoError(t, err)

		saved, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, saved.OptionImageIDs)
	})
}

func TestGetRandomNeverReturnsExcluded(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ids := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := svc.AddQuestion(ctx, validQuestion())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// исключены все, кроме последнего — выборка обязана вернуть именно его
	for i := 0; i < 25; i++ {
		q, err := svc.GetRandom(ctx, nil, nil, ids[:2])
		require.NoError(t, err)
		assert.Equal(t, ids[2], q.ID)
	}
}

func TestGetRandomNoMatches(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetRandom(ctx, strPtr("Нет такой главы"), nil, nil)
	assert.ErrorIs(t, err, errs.ErrNoQuestions)

	id, err := svc.AddQuestion(ctx, validQuestion())
	require.NoError(t, err)

	_, err = svc.GetRandom(ctx, nil, nil, []int{id})
	assert.ErrorIs(t, err, errs.ErrNoQuestions)
}

func TestDeleteMissingQuestion(t *testing.T) {
	svc, _ := newTestService()

	ok, err := svc.Delete(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChaptersAndLessons(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	q1 := validQuestion()
	q2 := validQuestion()
	q2.Chapter = strPtr("Кислоты")
	q2.Lesson = strPtr("Серная кислота")
	_, err := svc.AddQuestion(ctx, q1)
	require.NoError(t, err)
	_, err = svc.AddQuestion(ctx, q2)
	require.NoError(t, err)

	chapters, err := svc.Chapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Кислоты", "Основы"}, chapters)

	lessons, err := svc.Lessons(ctx, strPtr("Кислоты"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Серная кислота"}, lessons)

	byChapter, err := svc.ByChapter(ctx, "Основы")
	require.NoError(t, err)
	require.Len(t, byChapter, 1)
	assert.Equal(t, "Молекулы", *byChapter[0].Lesson)
}
