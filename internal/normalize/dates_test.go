package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fallback = time.Date(2026, 2, 14, 16, 45, 0, 0, time.UTC)

func TestParseDateFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"iso", "2025-10-22", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"dotted", "22.10.2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"dashed", "22-10-2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"slashed", "22/10/2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"long form", "22 de outubro de 2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"long form no de", "22 outubro 2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"abbreviated month", "3 out. 2025", time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)},
		{"accented month", "1 de março de 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"unaccented month", "1 de marco de 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"bare triple", "22 10 2025", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
		{"embedded in text", "Publicado em 22.10.2025 pelas 15h", time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseDate(tc.raw, fallback)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseDateFallsBackToIngestionDay(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"amanhã",
		"32.13.2025",
		"30.02.2026",
		"outubro de dois mil",
	}
	for _, raw := range cases {
		got, ok := ParseDate(raw, fallback)
		require.False(t, ok, "raw=%q", raw)
		require.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), got, "raw=%q", raw)
	}
}

func TestCombineSplitDate(t *testing.T) {
	t.Parallel()

	got, ok := CombineSplitDate("22.10", "2025", fallback)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), got)

	// A full date in the first block still parses when the year block is
	// missing.
	got, ok = CombineSplitDate("22.10.2025", "", fallback)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), got)

	// Nothing usable falls back.
	got, ok = CombineSplitDate("", "", fallback)
	require.False(t, ok)
	require.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), got)
}
