package history_handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	reportService "github.com/moosahu/chemistry-bot-sub002/internal/domain/reports/service"
)

// HistoryHandler структура для обработки команды /history
type HistoryHandler struct {
	reportService *reportService.ReportService
	historyLimit  int
	log           *slog.Logger
}

// NewHistoryHandler возвращает структуру обработчика
func NewHistoryHandler(reportService *reportService.ReportService, historyLimit int, log *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		reportService: reportService,
		historyLimit:  historyLimit,
		log:           log,
	}
}

// Handle показывает последние викторины пользователя, новые первыми.
func (h *HistoryHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID
	history, err := h.reportService.UserHistory(context.Background(), userID, h.historyLimit)
	if err != nil {
		h.log.Error("failed to load history", "user_id", userID, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	if len(history) == 0 {
		return c.Send("Вы еще не проходили викторин. Начните с /quiz!")
	}

	var b strings.Builder
	b.WriteString("📜 Ваша история викторин:\n\n")
	for _, entry := range history {
		b.WriteString(fmt.Sprintf("%s — %s: %d/%d (%.1f%%), %s\n",
			entry.StartTime.Format("02.01.2006 15:04"),
			describeQuiz(entry),
			entry.CorrectAnswers,
			entry.TotalQuestions,
			entry.ScorePercentage,
			quizflow.FormatDuration(entry.TimeTaken),
		))
	}
	return c.Send(b.String())
}

// describeQuiz — человекочитаемое название викторины для строки истории.
func describeQuiz(entry model.HistoryEntry) string {
	switch entry.QuizType {
	case model.QuizTypeChapter:
		if entry.Chapter != nil {
			return "глава «" + *entry.Chapter + "»"
		}
		return "викторина по главе"
	case model.QuizTypeLesson:
		if entry.Lesson != nil {
			return "урок «" + *entry.Lesson + "»"
		}
		return "викторина по уроку"
	case model.QuizTypeReview:
		return "работа над ошибками"
	default:
		return "случайная викторина"
	}
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *HistoryHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
