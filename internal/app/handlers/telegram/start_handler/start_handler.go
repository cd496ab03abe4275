package start_handler

import (
	"context"
	"log/slog"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	messageService "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/service"
	usersService "github.com/moosahu/chemistry-bot-sub002/internal/domain/users/service"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	userService    *usersService.UserService
	messageService *messageService.MessageService
	log            *slog.Logger
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(
	userService *usersService.UserService,
	messageService *messageService.MessageService,
	log *slog.Logger,
) *StartHandler {
	return &StartHandler{
		userService:    userService,
		messageService: messageService,
		log:            log,
	}
}

// Handle регистрирует пользователя и отправляет приветствие.
func (h *StartHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	ctx := context.Background()

	if err := h.userService.Touch(ctx, sender.ID, sender.Username, sender.FirstName, sender.LastName); err != nil {
		h.log.Error("failed to register user", "user_id", sender.ID, "err", err)
	}

	welcome, err := h.messageService.Get(ctx, messageService.WelcomeKey)
	if err != nil {
		h.log.Error("failed to load welcome message", "err", err)
		return c.Send(errs.UserMessage(err))
	}
	return c.Send(welcome)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
