package model

// Question представляет вопрос викторины.
// Options хранится в JSONB; OptionImageIDs либо nil, либо той же длины, что и Options.
type Question struct {
	ID                 int      `json:"id"`
	Text               string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"` // 0-based
	Explanation        *string  `json:"explanation,omitempty"`
	Chapter            *string  `json:"chapter,omitempty"`
	Lesson             *string  `json:"lesson,omitempty"`
	QuestionImageID    *string  `json:"question_image_id,omitempty"` // Telegram file ID
	OptionImageIDs     []string `json:"option_image_ids,omitempty"`
}
