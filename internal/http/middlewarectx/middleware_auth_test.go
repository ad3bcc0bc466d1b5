package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMocks     func(m *AuthServiceMock)
		wantStatusCode int
		wantUID        string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			setupMocks: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.User{UID: "uid-1", Username: "ann", Role: "user"}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantUID:        "uid-1",
		},
		{
			name:           "missing header",
			authHeader:     "",
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic abc",
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMocks: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, assert.AnError).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMocks(authMock)

			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UserUID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/subscription", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantUID != "" {
				assert.Equal(t, tt.wantUID, gotUID)
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		setupMocks func(m *AuthServiceMock)
		wantUID    string
	}{
		{
			name:       "valid token fills context",
			authHeader: "Bearer good-token",
			setupMocks: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.User{UID: "uid-1", Username: "ann", Role: "user"}, nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name:       "no header means guest",
			authHeader: "",
			setupMocks: func(_ *AuthServiceMock) {},
			wantUID:    "",
		},
		{
			name:       "invalid token degrades to guest",
			authHeader: "Bearer bad-token",
			setupMocks: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, assert.AnError).Once()
			},
			wantUID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMocks(authMock)

			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UserUID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/contents/1", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			OptionalJWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantUID, gotUID)
			authMock.AssertExpectations(t)
		})
	}
}
