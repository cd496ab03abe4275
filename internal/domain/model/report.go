package model

import "time"

// QuizReport — детальный отчет по завершенной (или текущей) сессии.
type QuizReport struct {
	QuizID          int            `json:"quiz_id"`
	UserID          int64          `json:"user_id"`
	QuizType        string         `json:"quiz_type"`
	Chapter         *string        `json:"chapter,omitempty"`
	Lesson          *string        `json:"lesson,omitempty"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	TotalQuestions  int            `json:"total_questions"`
	CorrectAnswers  int            `json:"correct_answers"`
	TimeTaken       int            `json:"time_taken"`
	ScorePercentage float64        `json:"score_percentage"`
	Answers         []ReportAnswer `json:"answers"`
}

// ReportAnswer — ответ в отчете вместе с данными вопроса.
type ReportAnswer struct {
	QuestionID         int       `json:"question_id"`
	UserAnswerIndex    int       `json:"user_answer_index"`
	IsCorrect          bool      `json:"is_correct"`
	AnswerTime         time.Time `json:"answer_time"`
	QuestionText       string    `json:"question_text"`
	Options            []string  `json:"options"`
	CorrectAnswerIndex int       `json:"correct_answer_index"`
	Explanation        *string   `json:"explanation,omitempty"`
}

// HistoryEntry — строка истории викторин пользователя.
type HistoryEntry struct {
	QuizID          int        `json:"quiz_id"`
	QuizType        string     `json:"quiz_type"`
	Chapter         *string    `json:"chapter,omitempty"`
	Lesson          *string    `json:"lesson,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	TotalQuestions  int        `json:"total_questions"`
	CorrectAnswers  int        `json:"correct_answers"`
	TimeTaken       int        `json:"time_taken"`
	ScorePercentage float64    `json:"score_percentage"`
}

// IncorrectQuestion — вопрос, на который пользователь хотя бы раз ответил неверно.
type IncorrectQuestion struct {
	Question
	ErrorCount int `json:"error_count"`
}
