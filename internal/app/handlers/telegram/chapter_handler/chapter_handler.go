package chapter_handler

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

// ChapterHandler структура для обработки команды /chapter
type ChapterHandler struct {
	flow            *quizflow.Flow
	questionService *questionService.QuestionService
	defaultQuestions int
	log             *slog.Logger
}

// NewChapterHandler возвращает структуру обработчика
func NewChapterHandler(
	flow *quizflow.Flow,
	questionService *questionService.QuestionService,
	defaultQuestions int,
	log *slog.Logger,
) *ChapterHandler {
	return &ChapterHandler{
		flow:            flow,
		questionService: questionService,
		defaultQuestions: defaultQuestions,
		log:             log,
	}
}

// Handle запускает викторину по главе: /chapter <название>.
// Без аргумента показывает список доступных глав.
func (h *ChapterHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chapter := strings.TrimSpace(c.Message().Payload)

	if chapter == "" {
		chapters, err := h.questionService.Chapters(ctx)
		if err != nil {
			h.log.Error("failed to list chapters", "err", err)
			return c.Send(errs.UserMessage(err))
		}
		if len(chapters) == 0 {
			return c.Send("В банке вопросов пока нет глав.")
		}
		var b strings.Builder
		b.WriteString("Доступные главы:\n")
		for _, name := range chapters {
			b.WriteString("• " + name + "\n")
		}
		b.WriteString("\nЗапуск: /chapter <название главы>")
		return c.Send(b.String())
	}

	return h.flow.Begin(c, model.QuizTypeChapter, &chapter, nil, h.defaultQuestions, nil)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ChapterHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
