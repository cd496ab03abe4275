package cancel_handler

import (
	"context"
	"log/slog"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
)

// CancelHandler структура для обработки команды /cancel
type CancelHandler struct {
	flow *quizflow.Flow
	log  *slog.Logger
}

// NewCancelHandler возвращает структуру обработчика
func NewCancelHandler(flow *quizflow.Flow, log *slog.Logger) *CancelHandler {
	return &CancelHandler{flow: flow, log: log}
}

// Handle прерывает идущую викторину. Сессия удаляется вместе с ответами,
// в историю она не попадает.
func (h *CancelHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID
	cancelled, err := h.flow.Cancel(context.Background(), userID)
	if err != nil {
		h.log.Error("failed to cancel quiz", "user_id", userID, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	if !cancelled {
		return c.Send("Сейчас нет активной викторины.")
	}
	return c.Send("Викторина отменена. Начать заново: /quiz")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CancelHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
