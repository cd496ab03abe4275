// Package storage определяет контракты хранилищ бота.
// Реализации: pgx-репозитории в internal/domain/*/repository и
// internal/storage/memory для режима без PostgreSQL и для тестов.
package storage

import (
	"context"
	"time"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
)

// QuestionFilter ограничивает выборку случайного вопроса.
type QuestionFilter struct {
	Chapter    *string
	Lesson     *string
	ExcludeIDs []int
}

// QuestionStore хранит банк вопросов.
type QuestionStore interface {
	// AddQuestion сохраняет вопрос и возвращает его id.
	AddQuestion(ctx context.Context, q *model.Question) (int, error)

	// GetQuestionByID возвращает вопрос; errs.ErrNotFound, если его нет.
	GetQuestionByID(ctx context.Context, id int) (*model.Question, error)

	// GetRandomQuestion выбирает равновероятно один вопрос среди подходящих
	// под фильтр; errs.ErrNotFound, если подходящих нет.
	GetRandomQuestion(ctx context.Context, f QuestionFilter) (*model.Question, error)

	// DeleteQuestion удаляет вопрос вместе с его ответами (каскад).
	// Возвращает false без ошибки, если вопроса не было.
	DeleteQuestion(ctx context.Context, id int) (bool, error)

	// Chapters возвращает отсортированные названия глав (без NULL).
	Chapters(ctx context.Context) ([]string, error)

	// Lessons возвращает отсортированные названия уроков,
	// при непустом chapter — только внутри главы.
	Lessons(ctx context.Context, chapter *string) ([]string, error)

	// QuestionsByChapter возвращает вопросы главы по возрастанию id.
	QuestionsByChapter(ctx context.Context, chapter string) ([]model.Question, error)

	// QuestionsByLesson возвращает вопросы урока по возрастанию id.
	QuestionsByLesson(ctx context.Context, chapter, lesson string) ([]model.Question, error)
}

// SessionStore хранит сессии викторин и ответы.
type SessionStore interface {
	// CreateSession открывает сессию и возвращает ее id.
	CreateSession(ctx context.Context, s *model.QuizSession) (int, error)

	// GetSession возвращает сессию; errs.ErrNotFound, если ее нет.
	GetSession(ctx context.Context, id int) (*model.QuizSession, error)

	// AppendAnswer добавляет неизменяемую запись ответа.
	AppendAnswer(ctx context.Context, a *model.AnswerRecord) error

	// CloseSession записывает end_time, correct_answers и time_taken.
	// Возвращает false без ошибки, если сессии нет.
	CloseSession(ctx context.Context, id int, endTime time.Time, correctAnswers, timeTaken int) (bool, error)

	// DeleteSession удаляет сессию вместе с ее ответами (каскад).
	DeleteSession(ctx context.Context, id int) (bool, error)
}

// ReportStore читает данные для отчетов.
type ReportStore interface {
	// SessionAnswers возвращает ответы сессии вместе с вопросами,
	// упорядоченные по времени ответа.
	SessionAnswers(ctx context.Context, sessionID int) ([]model.ReportAnswer, error)

	// UserSessions возвращает последние сессии пользователя, новые первыми.
	UserSessions(ctx context.Context, userID int64, limit int) ([]model.QuizSession, error)

	// IncorrectQuestions возвращает вопросы с хотя бы одним неверным ответом
	// пользователя: по убыванию числа ошибок, затем по возрастанию id.
	IncorrectQuestions(ctx context.Context, userID int64, limit int) ([]model.IncorrectQuestion, error)
}

// StatsStore считает агрегаты использования за временное окно.
type StatsStore interface {
	TotalUsers(ctx context.Context, f model.TimeFilter) (int, error)
	ActiveUsers(ctx context.Context, f model.TimeFilter) (int, error)
	TotalQuizzes(ctx context.Context, f model.TimeFilter) (int, error)

	// AverageQuizzesPerUser — викторины на одного активного участника.
	AverageQuizzesPerUser(ctx context.Context, f model.TimeFilter) (float64, error)

	// AverageCorrectRate — взвешенный процент правильных ответов по
	// завершенным сессиям: sum(correct)/sum(total)*100. chapter — опционально.
	AverageCorrectRate(ctx context.Context, f model.TimeFilter, chapter *string) (float64, error)

	// PopularUnits — главы по убыванию числа викторин.
	PopularUnits(ctx context.Context, f model.TimeFilter, limit int) ([]model.UnitActivity, error)

	// UnitDifficulty — главы по взвешенному проценту, easiest=false: худшие первыми.
	UnitDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.UnitScore, error)

	// QuestionDifficulty — вопросы по проценту правильных ответов,
	// при равенстве — по убыванию числа попыток.
	QuestionDifficulty(ctx context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.QuestionScore, error)

	// AverageCompletionTime — средняя длительность завершенной сессии в секундах.
	AverageCompletionTime(ctx context.Context, f model.TimeFilter) (float64, error)

	// CompletionRate — завершенные/начатые*100.
	CompletionRate(ctx context.Context, f model.TimeFilter) (float64, error)
}

// UserStore хранит пользователей бота.
type UserStore interface {
	// UpsertUser создает пользователя или обновляет его данные
	// и отметку last_active.
	UpsertUser(ctx context.Context, userID int64, username, firstName, lastName string) error

	// AllUserIDs возвращает идентификаторы всех пользователей (для рассылки).
	AllUserIDs(ctx context.Context) ([]int64, error)
}

// MessageStore хранит редактируемые системные сообщения.
type MessageStore interface {
	// GetMessageByKey возвращает текст по ключу; errs.ErrNotFound, если ключа нет.
	GetMessageByKey(ctx context.Context, key string) (string, error)

	// SetMessage создает или обновляет текст по ключу.
	SetMessage(ctx context.Context, key, text string) error
}
