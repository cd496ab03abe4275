package quiz_handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	messageService "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

// Верхняя граница длины викторины из аргумента команды.
const maxQuestions = 50

// QuizHandler структура для обработки команды /quiz
type QuizHandler struct {
	flow            *quizflow.Flow
	messageService  *messageService.MessageService
	defaultQuestions int
	log             *slog.Logger
}

// NewQuizHandler возвращает структуру обработчика
func NewQuizHandler(
	flow *quizflow.Flow,
	messageService *messageService.MessageService,
	defaultQuestions int,
	log *slog.Logger,
) *QuizHandler {
	return &QuizHandler{
		flow:            flow,
		messageService:  messageService,
		defaultQuestions: defaultQuestions,
		log:             log,
	}
}

// Handle запускает случайную викторину. Необязательный аргумент —
// число вопросов: /quiz 15.
func (h *QuizHandler) Handle(c telebot.Context) error {
	total := h.defaultQuestions
	if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
		n, err := strconv.Atoi(payload)
		if err != nil || n <= 0 || n > maxQuestions {
			return c.Send("Укажите число вопросов от 1 до 50, например: /quiz 15")
		}
		total = n
	}

	intro, err := h.messageService.Get(context.Background(), messageService.QuizIntroKey)
	if err == nil {
		if err := c.Send(intro); err != nil {
			h.log.Error("failed to send quiz intro", "err", err)
		}
	}

	return h.flow.Begin(c, model.QuizTypeRandom, nil, nil, total, nil)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *QuizHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
