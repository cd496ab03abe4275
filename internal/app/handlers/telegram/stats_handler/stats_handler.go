package stats_handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	statsService "github.com/moosahu/chemistry-bot-sub002/internal/domain/stats/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/config"
)

// StatsHandler структура для обработки команды /stats (только администраторы)
type StatsHandler struct {
	statsService *statsService.StatsService
	config       *config.Config
	log          *slog.Logger
}

// NewStatsHandler возвращает структуру обработчика
func NewStatsHandler(statsService *statsService.StatsService, config *config.Config, log *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		config:       config,
		log:          log,
	}
}

// Handle показывает сводную статистику за окно:
// /stats [today|7|30], без аргумента — за все время.
func (h *StatsHandler) Handle(c telebot.Context) error {
	if !h.config.IsAdmin(c.Sender().ID) {
		return c.Send("Эта команда доступна только администраторам.")
	}

	filter := parseFilterArg(strings.TrimSpace(c.Message().Payload))
	summary, err := h.statsService.Summary(context.Background(), filter)
	if err != nil {
		h.log.Error("failed to build stats summary", "filter", filter, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	return c.Send(renderSummary(summary))
}

// parseFilterArg принимает и короткие формы аргумента (7, 30d),
// и канонические значения фильтра.
func parseFilterArg(arg string) model.TimeFilter {
	switch strings.ToLower(arg) {
	case "today":
		return model.FilterToday
	case "7", "7d", "week":
		return model.FilterLast7Days
	case "30", "30d", "month":
		return model.FilterLast30Days
	default:
		return model.ParseTimeFilter(arg)
	}
}

func filterTitle(f model.TimeFilter) string {
	switch f {
	case model.FilterToday:
		return "за сегодня"
	case model.FilterLast7Days:
		return "за 7 дней"
	case model.FilterLast30Days:
		return "за 30 дней"
	default:
		return "за все время"
	}
}

func renderSummary(s *statsService.Summary) string {
	var b strings.Builder
	b.WriteString("📊 Статистика " + filterTitle(s.Filter) + "\n\n")
	b.WriteString(fmt.Sprintf("Пользователей: %d (активных: %d)\n", s.TotalUsers, s.ActiveUsers))
	b.WriteString(fmt.Sprintf("Викторин: %d (в среднем %.2f на пользователя)\n", s.TotalQuizzes, s.AverageQuizzesPerUser))
	b.WriteString(fmt.Sprintf("Средний процент правильных: %.2f%%\n", s.AverageCorrectRate))
	b.WriteString(fmt.Sprintf("Среднее время прохождения: %s\n", quizflow.FormatDuration(int(s.AverageCompletionTime))))
	b.WriteString(fmt.Sprintf("Доля завершенных: %.2f%%\n", s.CompletionRate))

	if len(s.PopularUnits) > 0 {
		b.WriteString("\nПопулярные главы:\n")
		for _, u := range s.PopularUnits {
			b.WriteString(fmt.Sprintf("• %s — %d викторин\n", u.Unit, u.QuizCount))
		}
	}
	if len(s.HardestUnits) > 0 {
		b.WriteString("\nСамые сложные главы:\n")
		for _, u := range s.HardestUnits {
			b.WriteString(fmt.Sprintf("• %s — %.2f%%\n", u.Unit, u.ScorePercent))
		}
	}
	if len(s.EasiestUnits) > 0 {
		b.WriteString("\nСамые простые главы:\n")
		for _, u := range s.EasiestUnits {
			b.WriteString(fmt.Sprintf("• %s — %.2f%%\n", u.Unit, u.ScorePercent))
		}
	}
	if len(s.HardestQuestions) > 0 {
		b.WriteString("\nСамые сложные вопросы:\n")
		for _, q := range s.HardestQuestions {
			b.WriteString(fmt.Sprintf("• [%d] %s — %.2f%% (%d попыток)\n",
				q.QuestionID, quizflow.Truncate(q.QuestionText, 40), q.CorrectPercent, q.Attempts))
		}
	}
	if len(s.EasiestQuestions) > 0 {
		b.WriteString("\nСамые простые вопросы:\n")
		for _, q := range s.EasiestQuestions {
			b.WriteString(fmt.Sprintf("• [%d] %s — %.2f%% (%d попыток)\n",
				q.QuestionID, quizflow.Truncate(q.QuestionText, 40), q.CorrectPercent, q.Attempts))
		}
	}
	return b.String()
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StatsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
