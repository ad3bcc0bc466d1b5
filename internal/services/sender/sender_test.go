package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/remedies-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	return m.Called().String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return len(p), args.Error(0)
}

func (m *MockSMTPWriter) Close() error {
	return m.Called().Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSendExpiringSubscriptionInfo(t *testing.T) {
	body, err := json.Marshal(models.UserReminderInfo{
		Email:    "ann@example.com",
		Username: "ann",
		Plan:     "master",
		EndsAt:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		writer := new(MockSMTPWriter)
		writer.On("Write", mock.Anything).Return(nil)
		writer.On("Close").Return(nil).Once()

		client := new(MockSMTPClient)
		client.On("Mail", "noreply@remedies.app").Return(nil).Once()
		client.On("Rcpt", "ann@example.com").Return(nil).Once()
		client.On("Data").Return(writer, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		transport := new(MockTransport)
		transport.On("Connect").Return(client, nil).Once()
		transport.On("GetSMTPUser").Return("noreply@remedies.app")

		svc := NewSenderService(newNoopLogger(), transport)
		require.NoError(t, svc.SendExpiringSubscriptionInfo(body))

		assert.Contains(t, string(writer.written), "ann@example.com")
		assert.Contains(t, string(writer.written), "master")
		client.AssertExpectations(t)
		transport.AssertExpectations(t)
	})

	t.Run("broken message body", func(t *testing.T) {
		svc := NewSenderService(newNoopLogger(), new(MockTransport))
		require.Error(t, svc.SendExpiringSubscriptionInfo([]byte("{not json")))
	})

	t.Run("connect failure", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Connect").Return(nil, assert.AnError).Once()
		transport.On("GetSMTPUser").Return("noreply@remedies.app")

		svc := NewSenderService(newNoopLogger(), transport)
		require.Error(t, svc.SendExpiringSubscriptionInfo(body))
	})
}
