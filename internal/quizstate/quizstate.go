// Package quizstate хранит состояние идущей викторины пользователя между
// сообщениями Telegram. Это временное состояние процесса; долговременные
// данные (сессии, ответы) живут в хранилище.
package quizstate

import (
	"sync"

	"github.com/google/uuid"
)

// Run представляет идущую викторину одного пользователя.
type Run struct {
	RunID          string  // защищает callback-данные от устаревших нажатий
	SessionID      int     // id строки quiz_history
	QuizType       string
	Chapter        *string
	Lesson         *string
	TotalQuestions int
	Position       int   // номер текущего вопроса, с нуля
	Correct        int   // правильных ответов на данный момент
	AskedIDs       []int // заданные вопросы — множество исключения для выборки
	Queue          []int // заранее выбранные вопросы (режим повторения); пусто — случайная выборка
	CurrentID      int   // id текущего вопроса
}

// NewRun создает Run со свежим RunID.
func NewRun(sessionID int, quizType string, chapter, lesson *string, totalQuestions int) *Run {
	return &Run{
		RunID:          uuid.NewString(),
		SessionID:      sessionID,
		QuizType:       quizType,
		Chapter:        chapter,
		Lesson:         lesson,
		TotalQuestions: totalQuestions,
	}
}

// Store определяет интерфейс для работы с состоянием викторин.
type Store interface {
	Get(userID int64) (*Run, bool)
	Set(userID int64, run *Run)
	Delete(userID int64)
}

// MemoryStore — in-memory реализация. Одна запись на пользователя:
// установка нового Run вытесняет предыдущий.
type MemoryStore struct {
	data map[int64]*Run
	mu   sync.RWMutex
}

// NewMemoryStore создает новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64]*Run)}
}

func (m *MemoryStore) Get(userID int64) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.data[userID]
	return run, ok
}

func (m *MemoryStore) Set(userID int64, run *Run) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = run
}

func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
}
