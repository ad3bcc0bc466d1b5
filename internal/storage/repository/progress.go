package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// SeedLessonProgress идемпотентно создает записи not_started для всех
// активных уроков курса. Уроки, по которым запись уже есть, пропускаются.
func (s *Storage) SeedLessonProgress(ctx context.Context, userUID string, courseID int) (int, error) {
	const op = "storage.SeedLessonProgress"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lesson_progress (user_uid, course_id, lesson_id, status)
			  SELECT $1, l.course_id, l.id, 'not_started'
			  FROM lessons l
			  WHERE l.course_id = $2 AND l.is_active = true
			  ON CONFLICT (user_uid, lesson_id) DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, userUID, courseID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CompleteLessonProgress переводит запись прогресса урока в completed,
// создавая её при необходимости.
func (s *Storage) CompleteLessonProgress(ctx context.Context, userUID string, courseID, lessonID int) error {
	const op = "storage.CompleteLessonProgress"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lesson_progress (user_uid, course_id, lesson_id, status, started_at, completed_at)
			  VALUES ($1, $2, $3, 'completed', NOW(), NOW())
			  ON CONFLICT (user_uid, lesson_id) DO UPDATE
			  SET status = 'completed',
			      started_at = COALESCE(lesson_progress.started_at, NOW()),
			      completed_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, userUID, courseID, lessonID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountCompletedLessons подсчитывает завершенные пользователем активные уроки курса.
func (s *Storage) CountCompletedLessons(ctx context.Context, userUID string, courseID int) (int, error) {
	const op = "storage.CountCompletedLessons"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*)
			  FROM lesson_progress lp
			  JOIN lessons l ON l.id = lp.lesson_id
			  WHERE lp.user_uid = $1 AND lp.course_id = $2
			      AND lp.status = 'completed' AND l.is_active = true`
	if err := s.DB.QueryRowContext(ctx, query, userUID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListLessonProgress возвращает записи прогресса пользователя по курсу
// в порядке уроков.
func (s *Storage) ListLessonProgress(ctx context.Context, userUID string, courseID int) ([]*models.LessonProgress, error) {
	const op = "storage.ListLessonProgress"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT lp.id, lp.user_uid, lp.course_id, lp.lesson_id, lp.status, lp.started_at, lp.completed_at
			  FROM lesson_progress lp
			  JOIN lessons l ON l.id = lp.lesson_id
			  WHERE lp.user_uid = $1 AND lp.course_id = $2
			  ORDER BY l.position`
	rows, err := s.DB.QueryContext(ctx, query, userUID, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.LessonProgress
	for rows.Next() {
		var item models.LessonProgress
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CourseID, &item.LessonID,
			&item.Status, &item.StartedAt, &item.CompletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
