package timeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStreamIDValid(t *testing.T) {
	millis, seq := parseStreamID("1700000000000-3")
	require.Equal(t, int64(1700000000000), millis)
	require.Equal(t, int64(3), seq)
}

func TestParseStreamIDMalformedSortsFirst(t *testing.T) {
	for _, id := range []string{"", "garbage", "123", "abc-def", "123-"} {
		millis, seq := parseStreamID(id)
		require.Equal(t, int64(0), millis, id)
		require.Equal(t, int64(0), seq, id)
	}
}

func TestAfterStreamIDOrdering(t *testing.T) {
	require.True(t, afterStreamID("100-2", "100-1"))
	require.True(t, afterStreamID("200-1", "100-9"))
	require.False(t, afterStreamID("100-1", "100-1"))
	require.False(t, afterStreamID("invalid", "0-0"))
}
