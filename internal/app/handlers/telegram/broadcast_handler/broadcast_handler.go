package broadcast_handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	usersService "github.com/moosahu/chemistry-bot-sub002/internal/domain/users/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/config"
)

// BroadcastHandler структура для обработки команды /broadcast (только администраторы)
type BroadcastHandler struct {
	bot         *telebot.Bot
	userService *usersService.UserService
	config      *config.Config
	log         *slog.Logger
}

// NewBroadcastHandler возвращает структуру обработчика
func NewBroadcastHandler(
	bot *telebot.Bot,
	userService *usersService.UserService,
	config *config.Config,
	log *slog.Logger,
) *BroadcastHandler {
	return &BroadcastHandler{
		bot:         bot,
		userService: userService,
		config:      config,
		log:         log,
	}
}

// Handle рассылает текст всем известным пользователям: /broadcast <текст>.
// Ошибки доставки отдельным пользователям не прерывают рассылку.
func (h *BroadcastHandler) Handle(c telebot.Context) error {
	if !h.config.IsAdmin(c.Sender().ID) {
		return c.Send("Эта команда доступна только администраторам.")
	}

	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Send("Укажите текст рассылки: /broadcast <текст>")
	}

	ids, err := h.userService.AllIDs(context.Background())
	if err != nil {
		h.log.Error("failed to list users for broadcast", "err", err)
		return c.Send(errs.UserMessage(err))
	}

	sent := 0
	for _, id := range ids {
		if _, err := h.bot.Send(&telebot.User{ID: id}, text); err != nil {
			h.log.Warn("failed to deliver broadcast", "user_id", id, "err", err)
			continue
		}
		sent++
	}

	h.log.Info("broadcast finished", "sent", sent, "total", len(ids))
	return c.Send(fmt.Sprintf("Рассылка завершена: доставлено %d из %d.", sent, len(ids)))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *BroadcastHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
