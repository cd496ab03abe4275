package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// SessionService ведет жизненный цикл сессии викторины:
// открыта (Start) -> закрыта (End), обратного перехода нет.
type SessionService struct {
	sessions  storage.SessionStore
	questions storage.QuestionStore
	log       *slog.Logger
	now       func() time.Time
}

// NewSessionService создает новый экземпляр SessionService
func NewSessionService(sessions storage.SessionStore, questions storage.QuestionStore, log *slog.Logger) *SessionService {
	return &SessionService{
		sessions:  sessions,
		questions: questions,
		log:       log,
		now:       time.Now,
	}
}

// Start открывает сессию и возвращает ее id.
func (s *SessionService) Start(ctx context.Context, userID int64, quizType string, chapter, lesson *string, totalQuestions int) (int, error) {
	if totalQuestions <= 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidQuestionCount, totalQuestions)
	}

	id, err := s.sessions.CreateSession(ctx, &model.QuizSession{
		UserID:         userID,
		QuizType:       quizType,
		Chapter:        chapter,
		Lesson:         lesson,
		StartTime:      s.now(),
		TotalQuestions: totalQuestions,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to start quiz: %w", err)
	}
	s.log.Info("started quiz", "session_id", id, "user_id", userID, "type", quizType)
	return id, nil
}

// RecordAnswer записывает ответ пользователя. Правильность вычисляется здесь,
// сравнением с correct_answer_index вопроса. Возвращает признак правильности.
// Открытость сессии не проверяется — за этим следит вызывающий код.
func (s *SessionService) RecordAnswer(ctx context.Context, sessionID, questionID, answerIndex int) (bool, error) {
	q, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, errs.ErrNotFound
		}
		return false, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if answerIndex < 0 || answerIndex >= len(q.Options) {
		return false, fmt.Errorf("%w: index %d", errs.ErrInvalidAnswer, answerIndex)
	}

	isCorrect := answerIndex == q.CorrectAnswerIndex
	err = s.sessions.AppendAnswer(ctx, &model.AnswerRecord{
		QuizHistoryID:   sessionID,
		QuestionID:      questionID,
		UserAnswerIndex: answerIndex,
		IsCorrect:       isCorrect,
		AnswerTime:      s.now(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to record answer: %w", err)
	}
	return isCorrect, nil
}

// Discard удаляет сессию вместе с записанными ответами. Используется
// при отмене викторины пользователем и при досрочном пустом старте.
func (s *SessionService) Discard(ctx context.Context, sessionID int) (bool, error) {
	ok, err := s.sessions.DeleteSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to discard quiz session %d: %w", sessionID, err)
	}
	if ok {
		s.log.Info("discarded quiz", "session_id", sessionID)
	}
	return ok, nil
}

// End закрывает сессию: time_taken = now - start_time в целых секундах.
// Возвращает false без ошибки, если сессии нет.
func (s *SessionService) End(ctx context.Context, sessionID, correctAnswers int) (bool, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load quiz session %d: %w", sessionID, err)
	}

	endTime := s.now()
	timeTaken := int(endTime.Sub(session.StartTime).Seconds())
	ok, err := s.sessions.CloseSession(ctx, sessionID, endTime, correctAnswers, timeTaken)
	if err != nil {
		return false, fmt.Errorf("failed to close quiz session %d: %w", sessionID, err)
	}
	if ok {
		s.log.Info("ended quiz", "session_id", sessionID, "correct", correctAnswers, "time_taken", timeTaken)
	}
	return ok, nil
}
