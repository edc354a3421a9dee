package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/opsgate/keygate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	digest, err := cryptox.HashSecret("pw1234")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$argon2id$v=19$"))
	require.NotContains(t, digest, "pw1234")

	t.Run("accepts the original secret", func(t *testing.T) {
		require.NoError(t, cryptox.VerifySecret("pw1234", digest))
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		require.ErrorIs(t, cryptox.VerifySecret("wrongpw", digest), cryptox.ErrSecretMismatch)
	})

	t.Run("rejects malformed digests", func(t *testing.T) {
		require.Error(t, cryptox.VerifySecret("pw1234", "not-a-digest"))
		require.Error(t, cryptox.VerifySecret("pw1234", "$argon2i$v=19$m=1,t=1,p=1$abc$def"))
	})
}

func TestHashSecretIsSalted(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	a, err := cryptox.HashSecret("same-secret")
	require.NoError(t, err)
	b, err := cryptox.HashSecret("same-secret")
	require.NoError(t, err)

	// Fresh salt per digest means identical secrets never share a digest.
	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifySecret("same-secret", a))
	require.NoError(t, cryptox.VerifySecret("same-secret", b))
}
