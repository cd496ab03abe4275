package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// Ключи системных сообщений.
const (
	WelcomeKey   = "welcome_message"
	HelpKey      = "help_message"
	QuizIntroKey = "quiz_intro_message"
)

// defaults — встроенные тексты на случай, когда ключ еще не редактировали.
var defaults = map[string]string{
	WelcomeKey:   "👋 Привет! Это бот-викторина по химии. Команда /quiz начнет случайную викторину, /help покажет остальные команды.",
	HelpKey:      "Команды:\n/quiz [n] — случайная викторина из n вопросов\n/review — работа над ошибками\n/history — ваша история викторин",
	QuizIntroKey: "🧪 Начинаем викторину! Отвечайте, нажимая на варианты под вопросом.",
}

// MessageService содержит логику для работы с редактируемыми системными сообщениями.
type MessageService struct {
	store storage.MessageStore
}

// NewMessageService создает новый экземпляр MessageService
func NewMessageService(store storage.MessageStore) *MessageService {
	return &MessageService{store: store}
}

// Get возвращает текст по ключу. Если ключ не редактировали, отдается
// встроенный текст по умолчанию; для незнакомого ключа — ошибка.
func (s *MessageService) Get(ctx context.Context, key string) (string, error) {
	text, err := s.store.GetMessageByKey(ctx, key)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, errs.ErrNotFound) {
		if def, ok := defaults[key]; ok {
			return def, nil
		}
		return "", fmt.Errorf("%w: message key %q", errs.ErrNotFound, key)
	}
	return "", fmt.Errorf("failed to get message by key: %w", err)
}

// Set сохраняет новый текст по ключу.
func (s *MessageService) Set(ctx context.Context, key, text string) error {
	if err := s.store.SetMessage(ctx, key, text); err != nil {
		return fmt.Errorf("failed to set message: %w", err)
	}
	return nil
}
