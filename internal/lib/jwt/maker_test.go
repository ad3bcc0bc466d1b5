package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("healer42", "user", "uid-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "healer42", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "uid-123", claims.UserUID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	maker := NewMaker("secret-one", time.Hour)
	other := NewMaker("secret-two", time.Hour)

	token, err := maker.GenerateToken("healer42", "user", "uid-123")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("healer42", "user", "uid-123")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)
	_, err := maker.ParseToken("not.a.token")
	assert.Error(t, err)
}
