package setmsg_handler

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	messageService "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/config"
)

// editableKeys — ключи, которые разрешено менять через команду.
var editableKeys = map[string]bool{
	messageService.WelcomeKey:   true,
	messageService.HelpKey:      true,
	messageService.QuizIntroKey: true,
}

// SetMsgHandler структура для обработки команды /setmsg (только администраторы)
type SetMsgHandler struct {
	messageService *messageService.MessageService
	config         *config.Config
	log            *slog.Logger
}

// NewSetMsgHandler возвращает структуру обработчика
func NewSetMsgHandler(messageService *messageService.MessageService, config *config.Config, log *slog.Logger) *SetMsgHandler {
	return &SetMsgHandler{
		messageService: messageService,
		config:         config,
		log:            log,
	}
}

// Handle меняет текст системного сообщения: /setmsg <ключ> <текст>.
func (h *SetMsgHandler) Handle(c telebot.Context) error {
	if !h.config.IsAdmin(c.Sender().ID) {
		return c.Send("Эта команда доступна только администраторам.")
	}

	parts := strings.SplitN(strings.TrimSpace(c.Message().Payload), " ", 2)
	if len(parts) < 2 || parts[1] == "" {
		return c.Send("Использование: /setmsg <ключ> <текст>\nКлючи: " + strings.Join(keyList(), ", "))
	}
	key, text := parts[0], strings.TrimSpace(parts[1])
	if !editableKeys[key] {
		return c.Send("Незнакомый ключ. Доступные: " + strings.Join(keyList(), ", "))
	}

	if err := h.messageService.Set(context.Background(), key, text); err != nil {
		h.log.Error("failed to set message", "key", key, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	return c.Send("Сообщение «" + key + "» обновлено.")
}

func keyList() []string {
	keys := make([]string, 0, len(editableKeys))
	for key := range editableKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SetMsgHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
