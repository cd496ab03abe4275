// Package quizflow — общая механика викторины для telegram-обработчиков:
// запуск, отправка очередного вопроса, завершение с отчетом.
package quizflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	questionService "github.com/moosahu/chemistry-bot-sub002/internal/domain/questions/service"
	reportService "github.com/moosahu/chemistry-bot-sub002/internal/domain/reports/service"
	sessionService "github.com/moosahu/chemistry-bot-sub002/internal/domain/sessions/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/quizstate"
)

// AnswerUnique — unique-идентификатор inline-кнопок с вариантами ответа.
const AnswerUnique = "answer"

// Flow связывает сервисы викторины с состоянием идущих прогонов.
type Flow struct {
	questions *questionService.QuestionService
	sessions  *sessionService.SessionService
	reports   *reportService.ReportService
	runs      quizstate.Store
	log       *slog.Logger
}

// NewFlow создает Flow поверх сервисов и хранилища состояния.
func NewFlow(
	questions *questionService.QuestionService,
	sessions *sessionService.SessionService,
	reports *reportService.ReportService,
	runs quizstate.Store,
	log *slog.Logger,
) *Flow {
	return &Flow{
		questions: questions,
		sessions:  sessions,
		reports:   reports,
		runs:      runs,
		log:       log,
	}
}

// Runs возвращает хранилище состояния прогонов.
func (f *Flow) Runs() quizstate.Store { return f.runs }

// Cancel прерывает идущую викторину пользователя, удаляя сессию и состояние.
// Возвращает false, если активной викторины нет.
func (f *Flow) Cancel(ctx context.Context, userID int64) (bool, error) {
	run, active := f.runs.Get(userID)
	if !active {
		return false, nil
	}
	f.runs.Delete(userID)
	if _, err := f.sessions.Discard(ctx, run.SessionID); err != nil {
		return true, err
	}
	return true, nil
}

// Begin открывает сессию и отправляет первый вопрос. queue задает заранее
// выбранные вопросы (режим повторения); при пустом queue вопросы выбираются
// случайно под фильтр главы/урока.
func (f *Flow) Begin(c telebot.Context, quizType string, chapter, lesson *string, total int, queue []int) error {
	userID := c.Sender().ID
	if _, active := f.runs.Get(userID); active {
		return c.Send(errs.UserMessage(errs.ErrQuizAlreadyActive))
	}

	ctx := context.Background()
	sessionID, err := f.sessions.Start(ctx, userID, quizType, chapter, lesson, total)
	if err != nil {
		f.log.Error("failed to start quiz", "user_id", userID, "err", err)
		return c.Send(errs.UserMessage(err))
	}

	run := quizstate.NewRun(sessionID, quizType, chapter, lesson, total)
	run.Queue = queue
	f.runs.Set(userID, run)

	return f.SendNextQuestion(c, run)
}

// SendNextQuestion выбирает следующий вопрос и отправляет его пользователю.
// Если подходящих вопросов больше нет, викторина завершается досрочно
// с текущим счетом.
func (f *Flow) SendNextQuestion(c telebot.Context, run *quizstate.Run) error {
	ctx := context.Background()
	userID := c.Sender().ID

	// Очередь повторения кончилась раньше плана (вопросы удалили) —
	// завершаем с текущим счетом, случайную добивку не делаем.
	if run.QuizType == model.QuizTypeReview && len(run.Queue) == 0 && run.Position > 0 {
		return f.Finish(c, run)
	}

	var question *model.Question
	var err error
	if len(run.Queue) > 0 {
		id := run.Queue[0]
		run.Queue = run.Queue[1:]
		question, err = f.questions.GetByID(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			// вопрос удалили после отбора — просто идем дальше
			return f.SendNextQuestion(c, run)
		}
	} else {
		question, err = f.questions.GetRandom(ctx, run.Chapter, run.Lesson, run.AskedIDs)
		if errors.Is(err, errs.ErrNoQuestions) {
			if run.Position == 0 {
				f.runs.Delete(userID)
				if _, derr := f.sessions.Discard(ctx, run.SessionID); derr != nil {
					f.log.Error("failed to drop empty quiz session", "session_id", run.SessionID, "err", derr)
				}
				return c.Send(errs.UserMessage(errs.ErrNoQuestions))
			}
			return f.Finish(c, run)
		}
	}
	if err != nil {
		f.log.Error("failed to pick next question", "user_id", userID, "err", err)
		return c.Send(errs.UserMessage(err))
	}

	run.CurrentID = question.ID
	run.AskedIDs = append(run.AskedIDs, question.ID)
	f.runs.Set(userID, run)

	return f.sendQuestion(c, run, question)
}

// sendQuestion отправляет текст вопроса с inline-клавиатурой вариантов.
func (f *Flow) sendQuestion(c telebot.Context, run *quizstate.Run, question *model.Question) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("❓ Вопрос %d из %d\n\n", run.Position+1, run.TotalQuestions))
	b.WriteString(question.Text)

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(question.Options))
	for i, option := range question.Options {
		label := fmt.Sprintf("%d. %s", i+1, option)
		if option == "" {
			label = fmt.Sprintf("Вариант %d", i+1)
		}
		btn := markup.Data(label, AnswerUnique, run.RunID, strconv.Itoa(question.ID), strconv.Itoa(i))
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)

	if question.QuestionImageID != nil && *question.QuestionImageID != "" {
		photo := &telebot.Photo{
			File:    telebot.File{FileID: *question.QuestionImageID},
			Caption: b.String(),
		}
		return c.Send(photo, markup)
	}
	return c.Send(b.String(), markup)
}

// RecordAnswer обрабатывает нажатие варианта ответа. runID защищает от
// нажатий по кнопкам уже завершенной или вытесненной викторины, проверка
// CurrentID гасит повторные нажатия по тому же вопросу.
func (f *Flow) RecordAnswer(c telebot.Context, runID string, questionID, answerIndex int) error {
	userID := c.Sender().ID

	run, active := f.runs.Get(userID)
	if !active || run.RunID != runID {
		if err := c.Respond(&telebot.CallbackResponse{Text: "Эта викторина уже завершена."}); err != nil {
			f.log.Debug("failed to answer callback", "err", err)
		}
		return c.Send(errs.UserMessage(errs.ErrSessionExpired))
	}
	if run.CurrentID != questionID {
		return c.Respond(&telebot.CallbackResponse{})
	}

	ctx := context.Background()
	isCorrect, err := f.sessions.RecordAnswer(ctx, run.SessionID, questionID, answerIndex)
	if err != nil {
		f.log.Error("failed to record answer", "session_id", run.SessionID, "question_id", questionID, "err", err)
		if rerr := c.Respond(&telebot.CallbackResponse{}); rerr != nil {
			f.log.Debug("failed to answer callback", "err", rerr)
		}
		return c.Send(errs.UserMessage(err))
	}

	feedback := "❌ Неверно"
	if isCorrect {
		feedback = "✅ Верно!"
		run.Correct++
	}
	run.Position++
	f.runs.Set(userID, run)

	if err := c.Respond(&telebot.CallbackResponse{Text: feedback}); err != nil {
		f.log.Debug("failed to answer callback", "err", err)
	}
	// убираем отвеченный вопрос, чтобы кнопки не нажимались повторно
	if err := c.Delete(); err != nil {
		f.log.Debug("failed to delete answered question", "err", err)
	}

	if run.Position >= run.TotalQuestions {
		return f.Finish(c, run)
	}
	return f.SendNextQuestion(c, run)
}

// Finish закрывает сессию, строит отчет и убирает состояние прогона.
func (f *Flow) Finish(c telebot.Context, run *quizstate.Run) error {
	ctx := context.Background()
	userID := c.Sender().ID
	f.runs.Delete(userID)

	if _, err := f.sessions.End(ctx, run.SessionID, run.Correct); err != nil {
		f.log.Error("failed to end quiz", "session_id", run.SessionID, "err", err)
		return c.Send(errs.UserMessage(err))
	}

	report, err := f.reports.QuizReport(ctx, run.SessionID)
	if err != nil {
		f.log.Error("failed to build quiz report", "session_id", run.SessionID, "err", err)
		return c.Send(errs.UserMessage(err))
	}
	return c.Send(RenderReport(report))
}

// RenderReport форматирует отчет о завершенной викторине.
func RenderReport(report *model.QuizReport) string {
	var b strings.Builder
	b.WriteString("🏁 Викторина завершена!\n\n")
	b.WriteString(fmt.Sprintf("Правильных ответов: %d из %d (%.1f%%)\n",
		report.CorrectAnswers, report.TotalQuestions, report.ScorePercentage))
	b.WriteString(fmt.Sprintf("Затраченное время: %s\n", FormatDuration(report.TimeTaken)))

	if len(report.Answers) > 0 {
		b.WriteString("\nРазбор ответов:\n")
		for i, a := range report.Answers {
			mark := "✅"
			if !a.IsCorrect {
				mark = "❌"
			}
			b.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, Truncate(a.QuestionText, 60)))
		}
	}
	return b.String()
}

// FormatDuration переводит секунды в «М мин С сек».
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d сек", seconds)
	}
	return fmt.Sprintf("%d мин %d сек", seconds/60, seconds%60)
}

// Truncate обрезает строку до limit рун с многоточием.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
