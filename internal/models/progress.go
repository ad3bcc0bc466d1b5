package models

import "time"

// Статусы прохождения урока.
const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// LessonProgress — состояние прохождения одного урока пользователем.
// Запись существует только при наличии завершенной покупки курса.
type LessonProgress struct {
	ID          int
	UserUID     string
	CourseID    int
	LessonID    int
	Status      string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// CourseProgress — агрегированный прогресс по курсу.
type CourseProgress struct {
	CourseID         int               `json:"course_id"`
	TotalLessons     int               `json:"total_lessons"`
	CompletedLessons int               `json:"completed_lessons"`
	Percentage       float64           `json:"percentage"`
	Lessons          []*LessonProgress `json:"lessons,omitempty"`
}
