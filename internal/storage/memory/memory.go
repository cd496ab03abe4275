// Package memory — реализация хранилищ в памяти. Используется в режиме
// storage: memory (запуск без PostgreSQL) и в тестах. Контракты совпадают
// с pgx-репозиториями: равновероятный случайный выбор, каскадное удаление
// ответов, те же правила временных окон.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/moosahu/chemistry-bot-sub002/internal/domain/errs"
	"github.com/moosahu/chemistry-bot-sub002/internal/domain/model"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
)

type userRow struct {
	username   string
	firstName  string
	lastName   string
	createdAt  time.Time
	lastActive time.Time
}

// Store реализует все интерфейсы пакета storage в памяти.
type Store struct {
	mu        sync.RWMutex
	questions map[int]model.Question
	sessions  map[int]model.QuizSession
	answers   []model.AnswerRecord
	users     map[int64]userRow
	messages  map[string]string

	nextQuestionID int
	nextSessionID  int
	nextAnswerID   int

	now func() time.Time
	rnd *rand.Rand
}

// NewStore создает пустой Store.
func NewStore() *Store {
	return &Store{
		questions: make(map[int]model.Question),
		sessions:  make(map[int]model.QuizSession),
		users:     make(map[int64]userRow),
		messages:  make(map[string]string),
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetNow подменяет источник времени (для тестов временных окон).
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// --- QuestionStore ---

// AddQuestion сохраняет вопрос и возвращает его id.
func (s *Store) AddQuestion(_ context.Context, q *model.Question) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQuestionID++
	stored := *q
	stored.ID = s.nextQuestionID
	s.questions[stored.ID] = stored
	return stored.ID, nil
}

// GetQuestionByID возвращает вопрос по id.
func (s *Store) GetQuestionByID(_ context.Context, id int) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &q, nil
}

// GetRandomQuestion выбирает равновероятно один вопрос среди подходящих под фильтр.
func (s *Store) GetRandomQuestion(_ context.Context, f storage.QuestionFilter) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := make(map[int]struct{}, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	var candidates []model.Question
	for _, q := range s.questions {
		if _, skip := excluded[q.ID]; skip {
			continue
		}
		if f.Chapter != nil && (q.Chapter == nil || *q.Chapter != *f.Chapter) {
			continue
		}
		if f.Lesson != nil && (q.Lesson == nil || *q.Lesson != *f.Lesson) {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return nil, errs.ErrNotFound
	}
	q := candidates[s.rnd.Intn(len(candidates))]
	return &q, nil
}

// DeleteQuestion удаляет вопрос и каскадом его записи ответов.
func (s *Store) DeleteQuestion(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return false, nil
	}
	delete(s.questions, id)
	s.answers = deleteAnswers(s.answers, func(a model.AnswerRecord) bool {
		return a.QuestionID == id
	})
	return true, nil
}

// Chapters возвращает отсортированные названия глав.
func (s *Store) Chapters(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, q := range s.questions {
		if q.Chapter != nil {
			seen[*q.Chapter] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// Lessons возвращает отсортированные названия уроков, при непустом chapter — внутри главы.
func (s *Store) Lessons(_ context.Context, chapter *string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, q := range s.questions {
		if q.Lesson == nil {
			continue
		}
		if chapter != nil && (q.Chapter == nil || *q.Chapter != *chapter) {
			continue
		}
		seen[*q.Lesson] = struct{}{}
	}
	return sortedKeys(seen), nil
}

// QuestionsByChapter возвращает вопросы главы по возрастанию id.
func (s *Store) QuestionsByChapter(_ context.Context, chapter string) ([]model.Question, error) {
	return s.filterQuestions(func(q model.Question) bool {
		return q.Chapter != nil && *q.Chapter == chapter
	}), nil
}

// QuestionsByLesson возвращает вопросы урока по возрастанию id.
func (s *Store) QuestionsByLesson(_ context.Context, chapter, lesson string) ([]model.Question, error) {
	return s.filterQuestions(func(q model.Question) bool {
		return q.Chapter != nil && *q.Chapter == chapter && q.Lesson != nil && *q.Lesson == lesson
	}), nil
}

func (s *Store) filterQuestions(match func(model.Question) bool) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var questions []model.Question
	for _, q := range s.questions {
		if match(q) {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

// --- SessionStore ---

// CreateSession открывает сессию и возвращает ее id.
func (s *Store) CreateSession(_ context.Context, session *model.QuizSession) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSessionID++
	stored := *session
	stored.ID = s.nextSessionID
	s.sessions[stored.ID] = stored
	return stored.ID, nil
}

// GetSession возвращает сессию по id.
func (s *Store) GetSession(_ context.Context, id int) (*model.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &session, nil
}

// AppendAnswer добавляет запись ответа.
func (s *Store) AppendAnswer(_ context.Context, a *model.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAnswerID++
	stored := *a
	stored.ID = s.nextAnswerID
	s.answers = append(s.answers, stored)
	return nil
}

// CloseSession закрывает сессию; false, если сессии нет.
func (s *Store) CloseSession(_ context.Context, id int, endTime time.Time, correctAnswers, timeTaken int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	session.EndTime = &endTime
	session.CorrectAnswers = &correctAnswers
	session.TimeTaken = &timeTaken
	s.sessions[id] = session
	return true, nil
}

// DeleteSession удаляет сессию и каскадом ее записи ответов.
func (s *Store) DeleteSession(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	s.answers = deleteAnswers(s.answers, func(a model.AnswerRecord) bool {
		return a.QuizHistoryID == id
	})
	return true, nil
}

// --- ReportStore ---

// SessionAnswers возвращает ответы сессии с данными вопросов по времени ответа.
func (s *Store) SessionAnswers(_ context.Context, sessionID int) ([]model.ReportAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var answers []model.ReportAnswer
	for _, a := range s.answers {
		if a.QuizHistoryID != sessionID {
			continue
		}
		q, ok := s.questions[a.QuestionID]
		if !ok {
			continue
		}
		answers = append(answers, model.ReportAnswer{
			QuestionID:         a.QuestionID,
			UserAnswerIndex:    a.UserAnswerIndex,
			IsCorrect:          a.IsCorrect,
			AnswerTime:         a.AnswerTime,
			QuestionText:       q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			Explanation:        q.Explanation,
		})
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].AnswerTime.Before(answers[j].AnswerTime) })
	return answers, nil
}

// UserSessions возвращает последние сессии пользователя, новые первыми.
func (s *Store) UserSessions(_ context.Context, userID int64, limit int) ([]model.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sessions []model.QuizSession
	for _, session := range s.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartTime.After(sessions[j].StartTime) })
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// IncorrectQuestions возвращает вопросы с неверными ответами пользователя:
// по убыванию числа ошибок, затем по возрастанию id.
func (s *Store) IncorrectQuestions(_ context.Context, userID int64, limit int) ([]model.IncorrectQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errorCounts := make(map[int]int)
	for _, a := range s.answers {
		if a.IsCorrect {
			continue
		}
		session, ok := s.sessions[a.QuizHistoryID]
		if !ok || session.UserID != userID {
			continue
		}
		errorCounts[a.QuestionID]++
	}

	var questions []model.IncorrectQuestion
	for id, count := range errorCounts {
		q, ok := s.questions[id]
		if !ok {
			continue
		}
		questions = append(questions, model.IncorrectQuestion{Question: q, ErrorCount: count})
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].ErrorCount != questions[j].ErrorCount {
			return questions[i].ErrorCount > questions[j].ErrorCount
		}
		return questions[i].ID < questions[j].ID
	})
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// --- StatsStore ---

// TotalUsers возвращает число пользователей, зарегистрированных в окне.
func (s *Store) TotalUsers(_ context.Context, f model.TimeFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	count := 0
	for _, u := range s.users {
		if f.Contains(u.createdAt, now) {
			count++
		}
	}
	return count, nil
}

// ActiveUsers возвращает число пользователей, активных в окне.
func (s *Store) ActiveUsers(_ context.Context, f model.TimeFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	count := 0
	for _, u := range s.users {
		if f.Contains(u.lastActive, now) {
			count++
		}
	}
	return count, nil
}

// TotalQuizzes возвращает число начатых викторин в окне.
func (s *Store) TotalQuizzes(_ context.Context, f model.TimeFilter) (int, error) {
	return len(s.sessionsInWindow(f)), nil
}

// AverageQuizzesPerUser — викторины на одного активного участника.
func (s *Store) AverageQuizzesPerUser(_ context.Context, f model.TimeFilter) (float64, error) {
	sessions := s.sessionsInWindow(f)
	participants := make(map[int64]struct{})
	for _, session := range sessions {
		participants[session.UserID] = struct{}{}
	}
	if len(participants) == 0 {
		return 0, nil
	}
	return float64(len(sessions)) / float64(len(participants)), nil
}

// AverageCorrectRate — взвешенный процент правильных ответов по завершенным сессиям.
func (s *Store) AverageCorrectRate(_ context.Context, f model.TimeFilter, chapter *string) (float64, error) {
	var correct, total int
	for _, session := range s.sessionsInWindow(f) {
		if !session.Completed() || session.TotalQuestions <= 0 {
			continue
		}
		if chapter != nil && (session.Chapter == nil || *session.Chapter != *chapter) {
			continue
		}
		if session.CorrectAnswers != nil {
			correct += *session.CorrectAnswers
		}
		total += session.TotalQuestions
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) * 100.0 / float64(total), nil
}

// PopularUnits — главы по убыванию числа викторин.
func (s *Store) PopularUnits(_ context.Context, f model.TimeFilter, limit int) ([]model.UnitActivity, error) {
	counts := make(map[string]int)
	for _, session := range s.sessionsInWindow(f) {
		if session.Chapter != nil {
			counts[*session.Chapter]++
		}
	}
	var units []model.UnitActivity
	for unit, count := range counts {
		units = append(units, model.UnitActivity{Unit: unit, QuizCount: count})
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].QuizCount != units[j].QuizCount {
			return units[i].QuizCount > units[j].QuizCount
		}
		return units[i].Unit < units[j].Unit
	})
	if limit > 0 && len(units) > limit {
		units = units[:limit]
	}
	return units, nil
}

// UnitDifficulty — главы по взвешенному проценту правильных ответов.
func (s *Store) UnitDifficulty(_ context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.UnitScore, error) {
	type unitTotals struct{ correct, total int }
	totals := make(map[string]*unitTotals)
	for _, session := range s.sessionsInWindow(f) {
		if !session.Completed() || session.TotalQuestions <= 0 || session.Chapter == nil {
			continue
		}
		t, ok := totals[*session.Chapter]
		if !ok {
			t = &unitTotals{}
			totals[*session.Chapter] = t
		}
		if session.CorrectAnswers != nil {
			t.correct += *session.CorrectAnswers
		}
		t.total += session.TotalQuestions
	}

	var units []model.UnitScore
	for unit, t := range totals {
		if t.total == 0 {
			continue
		}
		units = append(units, model.UnitScore{
			Unit:         unit,
			ScorePercent: float64(t.correct) * 100.0 / float64(t.total),
		})
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].ScorePercent != units[j].ScorePercent {
			if easiest {
				return units[i].ScorePercent > units[j].ScorePercent
			}
			return units[i].ScorePercent < units[j].ScorePercent
		}
		return units[i].Unit < units[j].Unit
	})
	if limit > 0 && len(units) > limit {
		units = units[:limit]
	}
	return units, nil
}

// QuestionDifficulty — вопросы по проценту правильных ответов.
func (s *Store) QuestionDifficulty(_ context.Context, f model.TimeFilter, limit int, easiest bool) ([]model.QuestionScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	type questionTotals struct{ correct, attempts int }
	totals := make(map[int]*questionTotals)
	for _, a := range s.answers {
		if !f.Contains(a.AnswerTime, now) {
			continue
		}
		t, ok := totals[a.QuestionID]
		if !ok {
			t = &questionTotals{}
			totals[a.QuestionID] = t
		}
		t.attempts++
		if a.IsCorrect {
			t.correct++
		}
	}

	var scores []model.QuestionScore
	for id, t := range totals {
		q, ok := s.questions[id]
		if !ok {
			continue
		}
		scores = append(scores, model.QuestionScore{
			QuestionID:     id,
			QuestionText:   q.Text,
			CorrectPercent: float64(t.correct) * 100.0 / float64(t.attempts),
			Attempts:       t.attempts,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].CorrectPercent != scores[j].CorrectPercent {
			if easiest {
				return scores[i].CorrectPercent > scores[j].CorrectPercent
			}
			return scores[i].CorrectPercent < scores[j].CorrectPercent
		}
		return scores[i].Attempts > scores[j].Attempts
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// AverageCompletionTime — средняя длительность завершенной викторины в секундах.
func (s *Store) AverageCompletionTime(_ context.Context, f model.TimeFilter) (float64, error) {
	var sum, count int
	for _, session := range s.sessionsInWindow(f) {
		if session.Completed() && session.TimeTaken != nil {
			sum += *session.TimeTaken
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

// CompletionRate — процент завершенных викторин среди начатых.
func (s *Store) CompletionRate(_ context.Context, f model.TimeFilter) (float64, error) {
	sessions := s.sessionsInWindow(f)
	if len(sessions) == 0 {
		return 0, nil
	}
	completed := 0
	for _, session := range sessions {
		if session.Completed() {
			completed++
		}
	}
	return float64(completed) * 100.0 / float64(len(sessions)), nil
}

func (s *Store) sessionsInWindow(f model.TimeFilter) []model.QuizSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	var sessions []model.QuizSession
	for _, session := range s.sessions {
		if f.Contains(session.StartTime, now) {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// --- UserStore ---

// UpsertUser создает пользователя или обновляет его данные и last_active.
func (s *Store) UpsertUser(_ context.Context, userID int64, username, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	u, ok := s.users[userID]
	if !ok {
		u = userRow{createdAt: now}
	}
	u.username = username
	u.firstName = firstName
	u.lastName = lastName
	u.lastActive = now
	s.users[userID] = u
	return nil
}

// AllUserIDs возвращает идентификаторы всех пользователей.
func (s *Store) AllUserIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- MessageStore ---

// GetMessageByKey возвращает текст сообщения по ключу.
func (s *Store) GetMessageByKey(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.messages[key]
	if !ok {
		return "", errs.ErrNotFound
	}
	return text, nil
}

// SetMessage создает или обновляет текст сообщения.
func (s *Store) SetMessage(_ context.Context, key, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[key] = text
	return nil
}

func deleteAnswers(answers []model.AnswerRecord, match func(model.AnswerRecord) bool) []model.AnswerRecord {
	kept := answers[:0]
	for _, a := range answers {
		if !match(a) {
			kept = append(kept, a)
		}
	}
	return kept
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
