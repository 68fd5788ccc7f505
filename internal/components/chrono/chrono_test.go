package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardTime(t *testing.T) {
	now := NewStandardTime().Now()
	require.Equal(t, Shanghai(), now.Location())
	require.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestFixedTime(t *testing.T) {
	instant := time.Date(2024, 1, 15, 4, 0, 0, 0, time.UTC)
	now := FixedTime(instant).Now()
	require.True(t, instant.Equal(now))
	require.Equal(t, 12, now.Hour())
}
