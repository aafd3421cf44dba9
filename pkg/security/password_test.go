package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonseokim/peerlink-backend/pkg/config"
)

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("sg5909sg", fastPasswordConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword("sg5909sg", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("", fastPasswordConfig())
	require.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "$bcrypt$nope")
	require.ErrorIs(t, err, ErrInvalidHash)
}

func TestGeneratePlaceholderPassword(t *testing.T) {
	first, err := GeneratePlaceholderPassword(32)
	require.NoError(t, err)
	second, err := GeneratePlaceholderPassword(32)
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)

	_, err = GeneratePlaceholderPassword(0)
	require.Error(t, err)
}
