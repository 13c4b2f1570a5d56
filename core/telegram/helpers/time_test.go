package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15 18:30", time.Date(2026, 3, 15, 18, 30, 0, 0, time.Local)},
		{"2026-3-5", time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)},
		{"15.03.2026 18:30", time.Date(2026, 3, 15, 18, 30, 0, 0, time.Local)},
		{"5.3.2026", time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)},
		{"  15.03.2026  ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, ok := ParseFlexibleDate(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseFlexibleDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "завтра", "15/03/2026", "2026-13-40"} {
		_, ok := ParseFlexibleDate(in)
		assert.False(t, ok, "input %q", in)
	}
}
