// Package content отдает материалы приложения с проверкой тарифа
// и сквозным кешированием.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// ErrPlanRequired — действующего тарифа пользователя недостаточно для
// этого материала.
var ErrPlanRequired = errors.New("effective plan is not sufficient for this content")

// ErrNotFound — материал не существует.
var ErrNotFound = errors.New("content not found")

// Repository описывает методы хранилища для материалов.
type Repository interface {
	GetContent(ctx context.Context, id int) (*models.Content, error)
	ListContents(ctx context.Context, kind string, limit, offset int) ([]*models.Content, error)
}

// UserRepository возвращает пользователя для проверки тарифа.
type UserRepository interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// AccessGate решает, открыт ли материал пользователю.
type AccessGate interface {
	CanAccess(user *models.User, requiredPlanTag *string) bool
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service отдает материалы, применяя тарифные ограничения.
type Service struct {
	repo  Repository
	users UserRepository
	gate  AccessGate
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, users UserRepository, gate AccessGate, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		gate:  gate,
		cache: cache,
		log:   log,
	}
}

// Get возвращает материал по ID, если действующего тарифа пользователя
// достаточно. Сам материал кешируется на час, решение о доступе
// принимается на каждый запрос заново. Пустой uid означает гостя.
func (s *Service) Get(ctx context.Context, userUID string, id int) (*models.Content, error) {
	content, err := s.getCached(ctx, id)
	if err != nil {
		return nil, err
	}

	var user *models.User
	if userUID != "" {
		user, err = s.users.GetUser(ctx, userUID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	if !s.gate.CanAccess(user, content.RequiredPlan) {
		return nil, ErrPlanRequired
	}
	return content, nil
}

// List возвращает материалы без тарифной фильтрации: список показывает
// и закрытые позиции вместе с их требуемым тарифом.
func (s *Service) List(ctx context.Context, kind string, limit, offset int) ([]*models.Content, error) {
	return s.repo.ListContents(ctx, kind, limit, offset)
}

func (s *Service) getCached(ctx context.Context, id int) (*models.Content, error) {
	var content *models.Content
	cacheKey := fmt.Sprintf("content:%d", id)

	found, err := s.cache.Get(cacheKey, &content)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && content != nil {
		return content, nil
	}

	content, err = s.repo.GetContent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, content, time.Hour); err != nil {
		s.log.Warn("failed to cache content", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return content, nil
}
