package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// GetContent возвращает единицу контента по ID.
func (s *Storage) GetContent(ctx context.Context, id int) (*models.Content, error) {
	const op = "storage.GetContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, kind, title, body, required_plan, created_at
			  FROM contents WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var item models.Content
	var requiredPlan sql.NullString
	if err := row.Scan(&item.ID, &item.Kind, &item.Title, &item.Body,
		&requiredPlan, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if requiredPlan.Valid {
		item.RequiredPlan = &requiredPlan.String
	}
	return &item, nil
}

// ListContents возвращает контент заданного вида с пагинацией.
// Пустой kind означает все виды.
func (s *Storage) ListContents(ctx context.Context, kind string, limit, offset int) ([]*models.Content, error) {
	const op = "storage.ListContents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, kind, title, body, required_plan, created_at
			  FROM contents
			  WHERE ($1 = '' OR kind = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Content
	for rows.Next() {
		var item models.Content
		var requiredPlan sql.NullString
		if err := rows.Scan(&item.ID, &item.Kind, &item.Title, &item.Body,
			&requiredPlan, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if requiredPlan.Valid {
			item.RequiredPlan = &requiredPlan.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
