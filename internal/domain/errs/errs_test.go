package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "❌ По выбранным критериям нет вопросов. Попробуйте другой раздел.", UserMessage(ErrNoQuestions))

	// обернутая ошибка находит свой текст через errors.Is
	wrapped := fmt.Errorf("handler: %w", ErrSessionExpired)
	assert.Equal(t, "⌛ Сессия викторины истекла. Начните новую командой /quiz.", UserMessage(wrapped))

	// незнакомая ошибка получает общий текст
	assert.Equal(t, "⚠️ Что-то пошло не так. Попробуйте еще раз.", UserMessage(errors.New("boom")))
}
