package help_handler

import (
	"context"
	"log/slog"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	messageService "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/service"
)

// HelpHandler структура для обработки команды /help
type HelpHandler struct {
	messageService *messageService.MessageService
	log            *slog.Logger
}

// NewHelpHandler возвращает структуру обработчика
func NewHelpHandler(messageService *messageService.MessageService, log *slog.Logger) *HelpHandler {
	return &HelpHandler{messageService: messageService, log: log}
}

func (h *HelpHandler) Handle(c telebot.Context) error {
	text, err := h.messageService.Get(context.Background(), messageService.HelpKey)
	if err != nil {
		h.log.Error("failed to load help message", "err", err)
		return c.Send(errs.UserMessage(err))
	}
	return c.Send(text)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *HelpHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
