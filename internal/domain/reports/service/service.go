package service

import (
	"context"
	"fmt"
	"math"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

// ReportService собирает отчеты по сессиям и истории пользователя.
type ReportService struct {
	sessions storage.SessionStore
	reports  storage.ReportStore
}

// NewReportService создает новый экземпляр ReportService
func NewReportService(sessions storage.SessionStore, reports storage.ReportStore) *ReportService {
	return &ReportService{sessions: sessions, reports: reports}
}

// QuizReport возвращает детальный отчет по сессии;
// errs.ErrNotFound, если сессии нет.
func (s *ReportService) QuizReport(ctx context.Context, sessionID int) (*model.QuizReport, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.reports.SessionAnswers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session answers: %w", err)
	}

	correct := 0
	if session.CorrectAnswers != nil {
		correct = *session.CorrectAnswers
	}
	timeTaken := 0
	if session.TimeTaken != nil {
		timeTaken = *session.TimeTaken
	}

	return &model.QuizReport{
		QuizID:          session.ID,
		UserID:          session.UserID,
		QuizType:        session.QuizType,
		Chapter:         session.Chapter,
		Lesson:          session.Lesson,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		TotalQuestions:  session.TotalQuestions,
		CorrectAnswers:  correct,
		TimeTaken:       timeTaken,
		ScorePercentage: ScorePercentage(correct, session.TotalQuestions),
		Answers:         answers,
	}, nil
}

// UserHistory возвращает историю викторин пользователя, новые первыми.
func (s *ReportService) UserHistory(ctx context.Context, userID int64, limit int) ([]model.HistoryEntry, error) {
	sessions, err := s.reports.UserSessions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load user history: %w", err)
	}

	history := make([]model.HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		correct := 0
		if session.CorrectAnswers != nil {
			correct = *session.CorrectAnswers
		}
		timeTaken := 0
		if session.TimeTaken != nil {
			timeTaken = *session.TimeTaken
		}
		history = append(history, model.HistoryEntry{
			QuizID:          session.ID,
			QuizType:        session.QuizType,
			Chapter:         session.Chapter,
			Lesson:          session.Lesson,
			StartTime:       session.StartTime,
			EndTime:         session.EndTime,
			TotalQuestions:  session.TotalQuestions,
			CorrectAnswers:  correct,
			TimeTaken:       timeTaken,
			ScorePercentage: ScorePercentage(correct, session.TotalQuestions),
		})
	}
	return history, nil
}

// IncorrectQuestions возвращает вопросы для режима «работа над ошибками».
func (s *ReportService) IncorrectQuestions(ctx context.Context, userID int64, limit int) ([]model.IncorrectQuestion, error) {
	questions, err := s.reports.IncorrectQuestions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load incorrect questions: %w", err)
	}
	return questions, nil
}

// ScorePercentage — процент правильных ответов, округленный до одного знака.
// Нулевой знаменатель дает 0, а не ошибку деления.
func ScorePercentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
