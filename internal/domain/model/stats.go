package model

import "time"

// TimeFilter задает временное окно для агрегатов статистики.
type TimeFilter string

const (
	FilterToday      TimeFilter = "today"
	FilterLast7Days  TimeFilter = "last_7_days"
	FilterLast30Days TimeFilter = "last_30_days"
	FilterAllTime    TimeFilter = "all_time"
)

// ParseTimeFilter разбирает строку фильтра; пустая строка и незнакомые
// значения трактуются как all_time.
func ParseTimeFilter(s string) TimeFilter {
	switch TimeFilter(s) {
	case FilterToday, FilterLast7Days, FilterLast30Days:
		return TimeFilter(s)
	default:
		return FilterAllTime
	}
}

// Condition возвращает SQL-условие окна для колонки с временной меткой.
// Фрагменты фиксированные, column приходит только из внутренних констант —
// пользовательский ввод сюда не попадает.
func (f TimeFilter) Condition(column string) string {
	switch f {
	case FilterToday:
		return " AND DATE(" + column + ") = CURRENT_DATE"
	case FilterLast7Days:
		return " AND " + column + " >= CURRENT_DATE - INTERVAL '7 days'"
	case FilterLast30Days:
		return " AND " + column + " >= CURRENT_DATE - INTERVAL '30 days'"
	default:
		return ""
	}
}

// Contains сообщает, попадает ли момент t в окно фильтра относительно now.
// Семантика совпадает с Condition: today — совпадение календарной даты,
// скользящие окна отсчитываются от начала текущего дня.
func (f TimeFilter) Contains(t, now time.Time) bool {
	switch f {
	case FilterToday:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case FilterLast7Days:
		return !t.Before(startOfDay(now).AddDate(0, 0, -7))
	case FilterLast30Days:
		return !t.Before(startOfDay(now).AddDate(0, 0, -30))
	default:
		return true
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UnitActivity — количество викторин по разделу (главе).
type UnitActivity struct {
	Unit      string `json:"unit"`
	QuizCount int    `json:"quiz_count"`
}

// UnitScore — взвешенный процент правильных ответов по разделу.
type UnitScore struct {
	Unit         string  `json:"unit"`
	ScorePercent float64 `json:"average_score_percent"`
}

// QuestionScore — процент правильных ответов по отдельному вопросу.
type QuestionScore struct {
	QuestionID     int     `json:"question_id"`
	QuestionText   string  `json:"question_text"`
	CorrectPercent float64 `json:"correct_percentage"`
	Attempts       int     `json:"attempts"`
}
