package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindSubscriptionsEndingTomorrow(ctx context.Context) ([]*models.UserReminderInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserReminderInfo), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRunFindExpiringSubscriptions(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *MockRepository)
	}{
		{
			name: "no expiring subscriptions",
			setupMocks: func(r *MockRepository) {
				r.On("FindSubscriptionsEndingTomorrow", mock.Anything).
					Return([]*models.UserReminderInfo{}, nil).Once()
			},
		},
		{
			name: "repository error is logged not returned",
			setupMocks: func(r *MockRepository) {
				r.On("FindSubscriptionsEndingTomorrow", mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMocks(repo)
			service := NewSchedulerService(repo, newNoopLogger())

			service.runFindExpiringSubscriptions(context.Background(), nil)

			repo.AssertExpectations(t)
		})
	}
}
