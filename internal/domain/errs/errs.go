// Package errs содержит типизированные ошибки бота и таблицу
// сопоставления ошибки с текстом для пользователя.
package errs

import "errors"

var (
	// ErrNotFound — запрошенная сущность отсутствует. Отдельная метка,
	// чтобы вызывающий код не путал "нет строк" с упавшим запросом.
	ErrNotFound = errors.New("not found")

	// ErrNoQuestions — нет вопросов по заданным критериям.
	ErrNoQuestions = errors.New("no questions found")

	// ErrInvalidQuestionCount — недопустимое число вопросов.
	ErrInvalidQuestionCount = errors.New("invalid question count")

	// ErrInvalidAnswer — индекс ответа вне диапазона вариантов.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidQuestion — вопрос не проходит валидацию (варианты, индекс).
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrDatabaseUnavailable — база данных недоступна.
	ErrDatabaseUnavailable = errors.New("database unavailable")

	// ErrSessionExpired — сессия викторины истекла или была сброшена.
	ErrSessionExpired = errors.New("quiz session expired")

	// ErrQuizAlreadyActive — у пользователя уже идет викторина.
	ErrQuizAlreadyActive = errors.New("quiz already active")

	// ErrRateLimited — превышена частота запросов.
	ErrRateLimited = errors.New("rate limited")
)

// userMessages — тексты для пользователя по типу ошибки.
var userMessages = []struct {
	err  error
	text string
}{
	{ErrNoQuestions, "❌ По выбранным критериям нет вопросов. Попробуйте другой раздел."},
	{ErrNotFound, "❌ Запрошенные данные не найдены."},
	{ErrInvalidQuestionCount, "❌ Недопустимое число вопросов."},
	{ErrInvalidAnswer, "❌ Такого варианта ответа нет."},
	{ErrInvalidQuestion, "❌ Вопрос заполнен некорректно."},
	{ErrDatabaseUnavailable, "⚠️ База данных временно недоступна, попробуйте позже."},
	{ErrSessionExpired, "⌛ Сессия викторины истекла. Начните новую командой /quiz."},
	{ErrQuizAlreadyActive, "⚠️ Викторина уже идет. Сначала завершите текущую."},
	{ErrRateLimited, "⏳ Слишком много запросов, подождите немного."},
}

// UserMessage возвращает текст для пользователя по ошибке.
// Для незнакомых ошибок возвращается общее извинение.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return "⚠️ Что-то пошло не так. Попробуйте еще раз."
}
