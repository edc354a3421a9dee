package domain_test

import (
	"testing"
	"time"

	"github.com/opsgate/keygate/internal/license/domain"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	t.Run("accepts calendar dates", func(t *testing.T) {
		d, err := domain.ParseExpiry("2099-01-01")
		require.NoError(t, err)
		require.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "tomorrow", "2024-1-1", "2024-02-30", "2024-01-01T00:00:00Z"} {
			_, err := domain.ParseExpiry(s)
			require.Error(t, err, "input %q", s)
		}
	})
}

func TestApprovalStateValid(t *testing.T) {
	t.Parallel()

	require.True(t, domain.StatePending.Valid())
	require.True(t, domain.StateApproved.Valid())
	require.True(t, domain.StateRevoked.Valid())
	require.False(t, domain.ApprovalState("banana").Valid())
	require.False(t, domain.ApprovalState("").Valid())
}
