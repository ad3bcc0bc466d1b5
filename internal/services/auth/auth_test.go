package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/remedies-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/password"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewMaker("test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "ann@example.com" &&
			u.Username == "ann" &&
			u.Role == "user" &&
			u.Plan == "rookie" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()

	svc := NewAuthService(users, newMaker())
	uid, err := svc.Register(context.Background(), "ann@example.com", "ann", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	stored := &models.User{
		UID:          "uid-1",
		Username:     "ann",
		PasswordHash: hash,
		Role:         "user",
	}

	tests := []struct {
		name        string
		rawPassword string
		setupMocks  func(m *UsersMock)
		wantErr     error
	}{
		{
			name:        "success",
			rawPassword: "secret123",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ann").Return(stored, nil).Once()
			},
		},
		{
			name:        "wrong password",
			rawPassword: "nope",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ann").Return(stored, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:        "unknown user",
			rawPassword: "secret123",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ann").Return(nil, assert.AnError).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)
			svc := NewAuthService(users, newMaker())

			token, role, err := svc.Login(context.Background(), "ann", tt.rawPassword)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, "user", role)
		})
	}
}

func TestValidateToken(t *testing.T) {
	maker := newMaker()
	svc := NewAuthService(new(UsersMock), maker)

	token, err := maker.GenerateToken("ann", "user", "uid-1")
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "uid-1", user.UID)

	_, err = svc.ValidateToken(context.Background(), token+"broken")
	require.Error(t, err)
}
