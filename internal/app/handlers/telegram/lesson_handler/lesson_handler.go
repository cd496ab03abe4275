package lesson_handler

import (
	"context"
	"log/slog"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	questionService "github.com/moosahu/chemistry-bot-sub002/internal/domain/questions/service"
)

// LessonHandler структура для обработки команды /lesson
type LessonHandler struct {
	flow            *quizflow.Flow
	questionService *questionService.QuestionService
	defaultQuestions int
	log             *slog.Logger
}

// NewLessonHandler возвращает структуру обработчика
func NewLessonHandler(
	flow *quizflow.Flow,
	questionService *questionService.QuestionService,
	defaultQuestions int,
	log *slog.Logger,
) *LessonHandler {
	return &LessonHandler{
		flow:            flow,
		questionService: questionService,
		defaultQuestions: defaultQuestions,
		log:             log,
	}
}

// Handle запускает викторину по уроку: /lesson <название>.
// Без аргумента показывает список доступных уроков.
func (h *LessonHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	lesson := strings.TrimSpace(c.Message().Payload)

	if lesson == "" {
		lessons, err := h.questionService.Lessons(ctx, nil)
		if err != nil {
			h.log.Error("failed to list lessons", "err", err)
			return c.Send(errs.UserMessage(err))
		}
		if len(lessons) == 0 {
			return c.Send("В банке вопросов пока нет уроков.")
		}
		var b strings.Builder
		b.WriteString("Доступные уроки:\n")
		for _, name := range lessons {
			b.WriteString("• " + name + "\n")
		}
		b.WriteString("\nЗапуск: /lesson <название урока>")
		return c.Send(b.String())
	}

	return h.flow.Begin(c, model.QuizTypeLesson, nil, &lesson, h.defaultQuestions, nil)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LessonHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
