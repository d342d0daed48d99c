package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/domain"
)

func TestPBKDF2Hasher_HashAndVerify(t *testing.T) {
	h := NewPBKDF2Hasher(1000)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$pbkdf2-sha256$i=1000,l=32$"))
	assert.NotContains(t, hash, "=$", "base64 parts are unpadded")

	require.NoError(t, h.Verify(hash, "correct horse"))
	require.ErrorIs(t, h.Verify(hash, "wrong"), domain.ErrUnauthorized)

	other, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt is random")
}

func TestPBKDF2Hasher_VerifyUsesEncodedIterations(t *testing.T) {
	hash, err := NewPBKDF2Hasher(500).Hash("pw")
	require.NoError(t, err)
	require.NoError(t, NewPBKDF2Hasher(2000).Verify(hash, "pw"))
}

func TestPBKDF2Hasher_VerifyBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewPBKDF2Hasher(0)
	require.NoError(t, h.Verify(string(raw), "secret123"))
	require.ErrorIs(t, h.Verify(string(raw), "nope"), domain.ErrUnauthorized)
}

func TestPBKDF2Hasher_VerifyMalformed(t *testing.T) {
	h := NewPBKDF2Hasher(0)
	for _, hash := range []string{
		"",
		"plain",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$l=32$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=x,l=32$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=10,l=32$!!!$aGFzaA",
	} {
		err := h.Verify(hash, "pw")
		require.ErrorIs(t, err, ErrMalformedHash, hash)
		assert.NotErrorIs(t, err, domain.ErrUnauthorized, hash)
	}
}
