package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// FindCompletedPurchase сообщает, есть ли завершенная покупка курса пользователем.
func (s *Storage) FindCompletedPurchase(ctx context.Context, userUID string, courseID int) (bool, error) {
	const op = "storage.FindCompletedPurchase"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS(
			      SELECT 1 FROM purchases
			      WHERE user_uid = $1 AND course_id = $2 AND status = 'completed')`
	if err := s.DB.QueryRowContext(ctx, query, userUID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreatePendingPurchase создает запись о покупке в статусе pending
// с идентификатором платежного намерения и возвращает её ID.
func (s *Storage) CreatePendingPurchase(ctx context.Context, purchase models.Purchase) (int, error) {
	const op = "storage.CreatePendingPurchase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO purchases (user_uid, course_id, method, reference, amount_paid, status)
			  VALUES ($1, $2, $3, $4, $5, 'pending')
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		purchase.UserUID, purchase.CourseID, purchase.Method, purchase.Reference,
		purchase.AmountPaid).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CompletePurchase переводит покупку в статус completed и фиксирует
// оплаченную сумму. Частичный уникальный индекс по (user_uid, course_id)
// для завершенных покупок закрывает гонку двойного подтверждения:
// второе подтверждение получает ErrDuplicate независимо от предварительных
// проверок в коде.
func (s *Storage) CompletePurchase(ctx context.Context, userUID string, courseID int,
	reference string, amountPaid float64) (*models.Purchase, error) {
	const op = "storage.CompletePurchase"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE purchases
			  SET status = 'completed', amount_paid = $1, purchased_at = NOW()
			  WHERE user_uid = $2 AND course_id = $3 AND reference = $4 AND status = 'pending'
			  RETURNING id, user_uid, course_id, method, reference, amount_paid, status, purchased_at`
	row := s.DB.QueryRowContext(ctx, query, amountPaid, userUID, courseID, reference)

	var p models.Purchase
	err := row.Scan(&p.ID, &p.UserUID, &p.CourseID, &p.Method, &p.Reference,
		&p.AmountPaid, &p.Status, &p.PurchasedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// MarkPurchaseFailed помечает незавершенную покупку как неуспешную.
func (s *Storage) MarkPurchaseFailed(ctx context.Context, userUID string, courseID int, reference string) error {
	const op = "storage.MarkPurchaseFailed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE purchases
			  SET status = 'failed'
			  WHERE user_uid = $1 AND course_id = $2 AND reference = $3 AND status = 'pending'`
	if _, err := s.DB.ExecContext(ctx, query, userUID, courseID, reference); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPendingPurchaseByReference возвращает незавершенную покупку
// по идентификатору платежного намерения.
func (s *Storage) GetPendingPurchaseByReference(ctx context.Context, reference string) (*models.Purchase, error) {
	const op = "storage.GetPendingPurchaseByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, course_id, method, reference, amount_paid, status, purchased_at
			  FROM purchases
			  WHERE reference = $1 AND status = 'pending'`
	row := s.DB.QueryRowContext(ctx, query, reference)

	var p models.Purchase
	err := row.Scan(&p.ID, &p.UserUID, &p.CourseID, &p.Method, &p.Reference,
		&p.AmountPaid, &p.Status, &p.PurchasedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
