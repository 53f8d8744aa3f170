package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var zeroTime time.Time

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
