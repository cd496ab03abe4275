package model

import "time"

// Типы викторин в quiz_history.quiz_type
const (
	QuizTypeRandom  = "random"
	QuizTypeChapter = "chapter"
	QuizTypeLesson  = "lesson"
	QuizTypeReview  = "review"
)

// QuizSession представляет одну попытку прохождения викторины (строка quiz_history).
// Открытая сессия имеет EndTime == nil; закрытие заполняет EndTime,
// CorrectAnswers и TimeTaken ровно один раз.
type QuizSession struct {
	ID             int        `json:"id"`
	UserID         int64      `json:"user_id"`
	QuizType       string     `json:"quiz_type"`
	Chapter        *string    `json:"chapter,omitempty"`
	Lesson         *string    `json:"lesson,omitempty"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers *int       `json:"correct_answers,omitempty"`
	TimeTaken      *int       `json:"time_taken,omitempty"` // в секундах
}

// Completed сообщает, закрыта ли сессия.
func (s *QuizSession) Completed() bool {
	return s.EndTime != nil
}

// AnswerRecord представляет ответ пользователя на один вопрос сессии.
// Запись создается один раз и далее не изменяется.
type AnswerRecord struct {
	ID              int       `json:"id"`
	QuizHistoryID   int       `json:"quiz_history_id"`
	QuestionID      int       `json:"question_id"`
	UserAnswerIndex int       `json:"user_answer_index"`
	IsCorrect       bool      `json:"is_correct"`
	AnswerTime      time.Time `json:"answer_time"`
}
