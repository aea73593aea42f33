package timeline

import (
	"strconv"
	"strings"
)

// parseStreamID splits a "<millis>-<seq>" id for ordering comparisons.
// Any malformed id — missing separator, non-numeric parts — sorts first
// by returning (0, 0), matching the reference implementation's
// exception-swallowing behavior: an id that cannot be parsed is treated
// as the oldest possible entry rather than rejected.
func parseStreamID(id string) (millis int64, seq int64) {
	idx := strings.IndexByte(id, '-')
	if idx < 0 {
		return 0, 0
	}
	m, err := strconv.ParseInt(id[:idx], 10, 64)
	if err != nil {
		return 0, 0
	}
	s, err := strconv.ParseInt(id[idx+1:], 10, 64)
	if err != nil {
		return 0, 0
	}
	return m, s
}

func formatStreamID(millis, seq int64) string {
	return strconv.FormatInt(millis, 10) + "-" + strconv.FormatInt(seq, 10)
}

// afterStreamID reports whether a sorts strictly after b under
// (millis, seq) lexical comparison.
func afterStreamID(a, b string) bool {
	am, as := parseStreamID(a)
	bm, bs := parseStreamID(b)
	if am != bm {
		return am > bm
	}
	return as > bs
}
