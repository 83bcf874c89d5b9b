package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHash(t *testing.T) {
	h := NewBcryptHash(bcrypt.MinCost)

	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", string(hashed))

	assert.True(t, h.Verify(string(hashed), "s3cret"))
	assert.False(t, h.Verify(string(hashed), "S3cret"))
	assert.False(t, h.Verify("not-a-bcrypt-hash", "s3cret"))
}

func TestNewBcryptHash_CostFallback(t *testing.T) {
	h := NewBcryptHash(99)

	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestHMACSHA256Hash(t *testing.T) {
	h := NewHMACSHA256Hash("signing-key")

	one, err := h.Hash("123456")
	require.NoError(t, err)

	two, err := h.Hash("123456")
	require.NoError(t, err)
	assert.Equal(t, one, two, "same input and key must digest identically")

	other, err := NewHMACSHA256Hash("other-key").Hash("123456")
	require.NoError(t, err)
	assert.NotEqual(t, one, other)

	assert.True(t, h.Verify(string(one), "123456"))
	assert.False(t, h.Verify(string(one), "654321"))
	assert.False(t, h.Verify("", "123456"))
}
