package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, plan,
		subscription_interval, subscription_started_at, subscription_ends_at,
		trial_ends_at, has_used_trial, last_subscription_reference, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var interval, lastRef sql.NullString
	var startedAt, endsAt, trialEndsAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Plan,
		&interval, &startedAt, &endsAt, &trialEndsAt, &u.HasUsedTrial, &lastRef, &u.CreatedAt); err != nil {
		return nil, err
	}
	if interval.Valid {
		u.SubscriptionInterval = &interval.String
	}
	if startedAt.Valid {
		u.SubscriptionStartedAt = &startedAt.Time
	}
	if endsAt.Valid {
		u.SubscriptionEndsAt = &endsAt.Time
	}
	if trialEndsAt.Valid {
		u.TrialEndsAt = &trialEndsAt.Time
	}
	if lastRef.Valid {
		u.LastSubscriptionRef = &lastRef.String
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// Новая учетная запись всегда создается на тарифе rookie без дат подписки.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role, plan)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Plan).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ActivateSubscription записывает активацию платного тарифа:
// тариф, интервал, границы периода и ссылку платежного шлюза.
func (s *Storage) ActivateSubscription(ctx context.Context, userUID, plan, interval string,
	startedAt, endsAt time.Time, reference string) error {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan = $1, subscription_interval = $2, subscription_started_at = $3,
			      subscription_ends_at = $4, last_subscription_reference = $5
			  WHERE uid = $6`
	res, err := s.DB.ExecContext(ctx, query, plan, interval, startedAt, endsAt, reference, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

// DowngradeSubscription сбрасывает учетную запись на тариф rookie,
// очищая интервал и даты периода. Ссылка платежного шлюза сохраняется
// для аудита; если передана новая, она перезаписывает старую.
func (s *Storage) DowngradeSubscription(ctx context.Context, userUID string, reference *string) error {
	const op = "storage.DowngradeSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan = 'rookie', subscription_interval = NULL,
			      subscription_started_at = NULL, subscription_ends_at = NULL,
			      last_subscription_reference = COALESCE($1, last_subscription_reference)
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, reference, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

// StartTrial помечает пробный период использованным и выставляет его конец.
// Возвращает ErrDuplicate, если пробный период уже был использован.
func (s *Storage) StartTrial(ctx context.Context, userUID string, trialEndsAt time.Time) error {
	const op = "storage.StartTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET trial_ends_at = $1, has_used_trial = true
			  WHERE uid = $2 AND has_used_trial = false`
	res, err := s.DB.ExecContext(ctx, query, trialEndsAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return nil
}

// FindSubscriptionsEndingTomorrow находит пользователей,
// у которых оплаченный период заканчивается завтра.
func (s *Storage) FindSubscriptionsEndingTomorrow(ctx context.Context) ([]*models.UserReminderInfo, error) {
	const op = "storage.FindSubscriptionsEndingTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, username, plan, subscription_ends_at
			  FROM users
			  WHERE subscription_ends_at::DATE = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserReminderInfo
	for rows.Next() {
		var info models.UserReminderInfo
		if err = rows.Scan(&info.Email, &info.Username, &info.Plan, &info.EndsAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
