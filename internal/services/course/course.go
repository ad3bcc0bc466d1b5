// Package course реализует покупку курсов и учет прохождения уроков.
package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
	"github.com/magabrotheeeer/remedies-backend/internal/paymentgateway"
	"github.com/magabrotheeeer/remedies-backend/internal/storage/repository"
)

// Ошибки доменного уровня, по которым HTTP-слой выбирает код ответа.
var (
	// ErrNotFound — курс или урок не существует либо урок не из этого курса.
	ErrNotFound = errors.New("course or lesson not found")
	// ErrAlreadyPurchased — завершенная покупка этого курса уже есть.
	ErrAlreadyPurchased = errors.New("course already purchased")
	// ErrPurchaseRequired — операция требует завершенной покупки курса.
	ErrPurchaseRequired = errors.New("completed purchase required")
	// ErrPaymentOwnerMismatch — платеж создан другим пользователем.
	ErrPaymentOwnerMismatch = errors.New("payment belongs to another user")
	// ErrPaymentNotSucceeded — платежный шлюз не подтвердил оплату.
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	// ErrAmountMismatch — оплаченная сумма не равна текущей цене курса.
	ErrAmountMismatch = errors.New("paid amount does not match course price")
)

// Repository описывает методы хранилища для курсов, покупок и прогресса.
type Repository interface {
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	GetLessonInCourse(ctx context.Context, courseID, lessonID int) (*models.Lesson, error)
	CountActiveLessons(ctx context.Context, courseID int) (int, error)

	FindCompletedPurchase(ctx context.Context, userUID string, courseID int) (bool, error)
	CreatePendingPurchase(ctx context.Context, purchase models.Purchase) (int, error)
	CompletePurchase(ctx context.Context, userUID string, courseID int,
		reference string, amountPaid float64) (*models.Purchase, error)
	MarkPurchaseFailed(ctx context.Context, userUID string, courseID int, reference string) error

	SeedLessonProgress(ctx context.Context, userUID string, courseID int) (int, error)
	CompleteLessonProgress(ctx context.Context, userUID string, courseID, lessonID int) error
	CountCompletedLessons(ctx context.Context, userUID string, courseID int) (int, error)
	ListLessonProgress(ctx context.Context, userUID string, courseID int) ([]*models.LessonProgress, error)
}

// Gateway описывает платежный шлюз. Сервису важна только форма операций,
// конкретный провайдер скрыт за интерфейсом.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*paymentgateway.Intent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*paymentgateway.Intent, error)
}

// Checkout — результат начала покупки: данные для завершения оплаты
// на стороне клиента.
type Checkout struct {
	PurchaseID      int     `json:"purchase_id"`
	PaymentIntentID string  `json:"payment_intent_id"`
	ClientSecret    string  `json:"client_secret"`
	Amount          float64 `json:"amount"`
}

// Service реализует правило "сначала покупка, потом уроки" и ведет
// записи прогресса.
type Service struct {
	repo    Repository
	gateway Gateway
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gateway Gateway, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		log:     log,
	}
}

// Purchase начинает покупку курса: создает платежное намерение у шлюза и
// запись покупки в статусе pending. Повторная покупка уже купленного
// курса отклоняется.
func (s *Service) Purchase(ctx context.Context, userUID string, courseID int) (*Checkout, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.FindCompletedPurchase(ctx, userUID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyPurchased
	}

	amount := int64(math.Round(course.Price * 100))
	metadata := map[string]string{
		"user_uid":  userUID,
		"course_id": strconv.Itoa(courseID),
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, metadata)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	purchaseID, err := s.repo.CreatePendingPurchase(ctx, models.Purchase{
		UserUID:    userUID,
		CourseID:   courseID,
		Method:     "stripe",
		Reference:  intent.ID,
		AmountPaid: 0,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase started",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID),
		slog.String("payment_intent_id", intent.ID))

	return &Checkout{
		PurchaseID:      purchaseID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          course.Price,
	}, nil
}

// ConfirmPurchase завершает покупку после оплаты на стороне клиента.
// Проверяет статус платежа, владельца из метаданных и совпадение
// оплаченной суммы с текущей ценой курса. Запись покупки переходит в
// completed только после всех проверок, при неуспехе остается failed
// или pending, но никогда не completed.
func (s *Service) ConfirmPurchase(ctx context.Context, userUID string, courseID int, paymentIntentID string) (*models.Purchase, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.FindCompletedPurchase(ctx, userUID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyPurchased
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}

	if owner := intent.Metadata["user_uid"]; owner != userUID {
		s.log.Warn("payment owner mismatch",
			slog.String("user_uid", userUID),
			slog.String("payment_intent_id", paymentIntentID))
		return nil, ErrPaymentOwnerMismatch
	}

	if intent.Status != paymentgateway.StatusSucceeded {
		if err := s.repo.MarkPurchaseFailed(ctx, userUID, courseID, paymentIntentID); err != nil {
			s.log.Error("failed to mark purchase as failed", slog.Any("err", err))
		}
		return nil, ErrPaymentNotSucceeded
	}

	amountPaid := float64(intent.AmountReceived) / 100
	if int64(math.Round(course.Price*100)) != intent.AmountReceived {
		if err := s.repo.MarkPurchaseFailed(ctx, userUID, courseID, paymentIntentID); err != nil {
			s.log.Error("failed to mark purchase as failed", slog.Any("err", err))
		}
		return nil, ErrAmountMismatch
	}

	purchase, err := s.repo.CompletePurchase(ctx, userUID, courseID, paymentIntentID, amountPaid)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyPurchased
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.log.Info("purchase completed",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID),
		slog.Float64("amount_paid", amountPaid))
	return purchase, nil
}

// StartCourse идемпотентно создает записи прогресса not_started для всех
// активных уроков купленного курса. Возвращает число созданных записей.
func (s *Service) StartCourse(ctx context.Context, userUID string, courseID int) (int, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return 0, err
	}
	if err := s.requirePurchase(ctx, userUID, courseID); err != nil {
		return 0, err
	}
	return s.repo.SeedLessonProgress(ctx, userUID, courseID)
}

// CompleteLesson помечает урок купленного курса завершенным. Урок должен
// принадлежать курсу.
func (s *Service) CompleteLesson(ctx context.Context, userUID string, courseID, lessonID int) error {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return err
	}
	if err := s.requirePurchase(ctx, userUID, courseID); err != nil {
		return err
	}
	if _, err := s.repo.GetLessonInCourse(ctx, courseID, lessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.CompleteLessonProgress(ctx, userUID, courseID, lessonID)
}

// Progress возвращает процент прохождения курса и статусы уроков.
// Курс без активных уроков дает 0 процентов.
func (s *Service) Progress(ctx context.Context, userUID string, courseID int) (*models.CourseProgress, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.requirePurchase(ctx, userUID, courseID); err != nil {
		return nil, err
	}

	total, err := s.repo.CountActiveLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CountCompletedLessons(ctx, userUID, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.repo.ListLessonProgress(ctx, userUID, courseID)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if total > 0 {
		percentage = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	return &models.CourseProgress{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
		Percentage:       percentage,
		Lessons:          lessons,
	}, nil
}

func (s *Service) getCourse(ctx context.Context, courseID int) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *Service) requirePurchase(ctx context.Context, userUID string, courseID int) error {
	exists, err := s.repo.FindCompletedPurchase(ctx, userUID, courseID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPurchaseRequired
	}
	return nil
}
