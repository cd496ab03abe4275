package answer_handler

import (
	"log/slog"
	"strconv"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
)

// AnswerHandler обрабатывает нажатия inline-кнопок с вариантами ответа.
// Данные callback: runID|questionID|optionIndex.
type AnswerHandler struct {
	flow *quizflow.Flow
	log  *slog.Logger
}

// NewAnswerHandler возвращает структуру обработчика
func NewAnswerHandler(flow *quizflow.Flow, log *slog.Logger) *AnswerHandler {
	return &AnswerHandler{flow: flow, log: log}
}

func (h *AnswerHandler) Handle(c telebot.Context) error {
	args := c.Args()
	if len(args) != 3 {
		h.log.Warn("malformed answer callback", "data", c.Data())
		return c.Respond(&telebot.CallbackResponse{})
	}

	questionID, err := strconv.Atoi(args[1])
	if err != nil {
		h.log.Warn("malformed question id in callback", "data", c.Data())
		return c.Respond(&telebot.CallbackResponse{})
	}
	answerIndex, err := strconv.Atoi(args[2])
	if err != nil {
		h.log.Warn("malformed option index in callback", "data", c.Data())
		return c.Respond(&telebot.CallbackResponse{})
	}

	return h.flow.RecordAnswer(c, args[0], questionID, answerIndex)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
