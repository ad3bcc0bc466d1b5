package confirm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
	courseservice "github.com/magabrotheeeer/remedies-backend/internal/services/course"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ConfirmPurchase(ctx context.Context, userUID string, courseID int, paymentIntentID string) (*models.Purchase, error) {
	args := m.Called(ctx, userUID, courseID, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	var bodyBytes []byte
	var err error
	switch v := body.(type) {
	case string:
		bodyBytes = []byte(v)
	default:
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/courses/7/confirm", bytes.NewReader(bodyBytes))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "7")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.UID, "uid-1")
	return req.WithContext(ctx)
}

func TestConfirmHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(m *ServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "success",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(&models.Purchase{ID: 15, Status: models.PurchaseCompleted}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing payment intent id",
			requestBody:    Request{},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field PaymentIntentID is a required field",
		},
		{
			name:        "already purchased",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, courseservice.ErrAlreadyPurchased).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantError:      "course already purchased",
		},
		{
			name:        "owner mismatch",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, courseservice.ErrPaymentOwnerMismatch).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "payment belongs to another user",
		},
		{
			name:        "payment not succeeded",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, courseservice.ErrPaymentNotSucceeded).Once()
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "payment has not succeeded",
		},
		{
			name:        "amount mismatch",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, courseservice.ErrAmountMismatch).Once()
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "paid amount does not match course price",
		},
		{
			name:        "course not found",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, courseservice.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "course not found",
		},
		{
			name:        "storage error",
			requestBody: Request{PaymentIntentID: "pi_123"},
			setupMocks: func(m *ServiceMock) {
				m.On("ConfirmPurchase", mock.Anything, "uid-1", 7, "pi_123").
					Return(nil, errors.New("db is down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not confirm purchase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMocks(serviceMock)
			handler := New(newNoopLogger(), serviceMock)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tt.requestBody))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
