package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("strongpass123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "strongpass123", hash)

	assert.NoError(t, CompareHash(hash, "strongpass123"))
	assert.Error(t, CompareHash(hash, "wrongpass"))
}

func TestCompareHashInvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "whatever"))
}
