package normalize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "15/03/2024"},
		{"15/03/2024", "15/03/2024"},
		{"not-a-date", "not-a-date"},
		{"", ""},
		{"2023-03-07T00:00", "07/03/2023"},
		{"2024-03-05T00:00:00", "05/03/2024"},
		{"2024-03-15T10:30:00-03:00", "15/03/2024"},
		{"2024-02-30", "2024-02-30"},
		{"31/02/2024", "31/02/2024"},
		{"março de 2024", "março de 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.input))
		})
	}
}

func TestFormatDate_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1900, 2100).Draw(t, "year")
		month := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 28).Draw(t, "day")

		iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		display := fmt.Sprintf("%02d/%02d/%04d", day, month, year)

		if got := FormatDate(iso); got != display {
			t.Fatalf("FormatDate(%q) = %q, want %q", iso, got, display)
		}
		if got := FormatDate(display); got != display {
			t.Fatalf("FormatDate(%q) = %q, want unchanged", display, got)
		}
	})
}

func TestFormatDate_UnparseableUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Z \-/]{1,20}`).Draw(t, "s")
		if got := FormatDate(s); got != s {
			t.Fatalf("FormatDate(%q) = %q, want unchanged", s, got)
		}
	})
}

func TestParseYear(t *testing.T) {
	year, err := ParseYear("dataHora", "2023-02-01T00:00")
	require.NoError(t, err)
	assert.Equal(t, 2023, year)

	_, err = ParseYear("dataHora", "")
	var dateErr *DateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "dataHora", dateErr.Field)

	_, err = ParseYear("dataHora", "ontem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ontem"`)
}
