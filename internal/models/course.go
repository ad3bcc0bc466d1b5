package models

import "time"

// Course — платный курс. Цена фиксируется в момент подтверждения оплаты:
// подтверждение с устаревшей суммой отклоняется.
type Course struct {
	ID           int
	Title        string
	Description  string
	Price        float64
	RequiredPlan *string
	IsActive     bool
	CreatedAt    time.Time
}

// Lesson — урок курса. Порядок уроков задается явным полем Position,
// а не временем создания.
type Lesson struct {
	ID       int
	CourseID int
	Title    string
	Body     string
	Position int
	IsActive bool
}
