package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, h.Verify(hash, "correct horse battery"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "correct horse battery"))
}

func TestHashRejectsLongPasswords(t *testing.T) {
	_, err := NewHasherWithCost(bcrypt.MinCost).Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.Error(t, err)
}
