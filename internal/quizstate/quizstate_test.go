package quizstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

func TestNewRunGeneratesUniqueIDs(t *testing.T) {
	a := NewRun(1, model.QuizTypeRandom, nil, nil, 10)
	b := NewRun(2, model.QuizTypeRandom, nil, nil, 10)

	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, 10, a.TotalQuestions)
	assert.Zero(t, a.Position)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get(42)
	assert.False(t, ok)

	run := NewRun(1, model.QuizTypeRandom, nil, nil, 5)
	store.Set(42, run)

	got, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, run.RunID, got.RunID)

	// новый Run вытесняет предыдущий
	replacement := NewRun(2, model.QuizTypeReview, nil, nil, 3)
	store.Set(42, replacement)
	got, ok = store.Get(42)
	require.True(t, ok)
	assert.Equal(t, replacement.RunID, got.RunID)

	store.Delete(42)
	_, ok = store.Get(42)
	assert.False(t, ok)
}
