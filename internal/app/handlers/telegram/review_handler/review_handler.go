package review_handler

import (
	"context"
	"log/slog"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	reportService "github.com/moosahu/chemistry-bot-sub002/internal/domain/reports/service"
)

// ReviewHandler структура для обработки команды /review
type ReviewHandler struct {
	flow            *quizflow.Flow
	reportService   *reportService.ReportService
	defaultQuestions int
	log             *slog.Logger
}

// NewReviewHandler возвращает структуру обработчика
func NewReviewHandler(
	flow *quizflow.Flow,
	reportService *reportService.ReportService,
	defaultQuestions int,
	log *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		flow:            flow,
		reportService:   reportService,
		defaultQuestions: defaultQuestions,
		log:             log,
	}
}

// Handle запускает «работу над ошибками»: викторину из вопросов, на которые
// пользователь чаще всего отвечал неправильно.
func (h *ReviewHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	questions, err := h.reportService.IncorrectQuestions(ctx, userID, h.defaultQuestions)
	if err != nil {
		h.log.Error("failed to load incorrect questions", "user_id", userID, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	if len(questions) == 0 {
		return c.Send("🎉 У вас нет вопросов с ошибками — повторять нечего!")
	}

	queue := make([]int, 0, len(questions))
	for _, q := range questions {
		queue = append(queue, q.ID)
	}

	return h.flow.Begin(c, model.QuizTypeReview, nil, nil, len(queue), queue)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ReviewHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
