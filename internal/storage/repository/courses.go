package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// GetCourse возвращает курс по ID.
func (s *Storage) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, required_plan, is_active, created_at
			  FROM courses WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var course models.Course
	var requiredPlan sql.NullString
	if err := row.Scan(&course.ID, &course.Title, &course.Description, &course.Price,
		&requiredPlan, &course.IsActive, &course.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if requiredPlan.Valid {
		course.RequiredPlan = &requiredPlan.String
	}
	return &course, nil
}

// ListActiveLessons возвращает активные уроки курса в порядке поля position.
func (s *Storage) ListActiveLessons(ctx context.Context, courseID int) ([]*models.Lesson, error) {
	const op = "storage.ListActiveLessons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, title, body, position, is_active
			  FROM lessons
			  WHERE course_id = $1 AND is_active = true
			  ORDER BY position`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Body,
			&lesson.Position, &lesson.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &lesson)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetLessonInCourse возвращает урок, только если он принадлежит курсу.
func (s *Storage) GetLessonInCourse(ctx context.Context, courseID, lessonID int) (*models.Lesson, error) {
	const op = "storage.GetLessonInCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, title, body, position, is_active
			  FROM lessons
			  WHERE id = $1 AND course_id = $2`
	row := s.DB.QueryRowContext(ctx, query, lessonID, courseID)

	var lesson models.Lesson
	if err := row.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Body,
		&lesson.Position, &lesson.IsActive); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &lesson, nil
}

// CountActiveLessons подсчитывает активные уроки курса.
func (s *Storage) CountActiveLessons(ctx context.Context, courseID int) (int, error) {
	const op = "storage.CountActiveLessons"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND is_active = true`
	if err := s.DB.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
