package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-03-01", "2024-03-01", true},
		{"2024-03-01T22:15:00Z", "2024-03-01", true},
		{"2024-03-01T22:15:00.123Z", "2024-03-01", true},
		{"2024-03-01T22:15:00", "2024-03-01", true},
		{" 1999-12-31 ", "1999-12-31", true},
		{"03/01/2024", "", false},
		{"Invalid Date", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestOptionalDate(t *testing.T) {
	for _, empty := range []string{"", "null", "Invalid Date", "  "} {
		got, err := OptionalDate(empty)
		assert.NoError(t, err)
		assert.Nil(t, got, "input %q", empty)
	}

	got, err := OptionalDate("2023-07-04")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.July, got.Month())

	_, err = OptionalDate("July 4th")
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	assert.Equal(t, "The Hobbit", Text("  The\x00 Hobbit \n"))
}

func TestISBN(t *testing.T) {
	assert.Equal(t, "9780261102354", ISBN("978-0-261-10235-4"))
	assert.Equal(t, "080442957X", ISBN("0 8044 2957 x"))
	assert.Equal(t, "", ISBN(""))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "plain text", Description("  plain text "))
	assert.Equal(t, "", Description(""))

	got := Description("<p>A <b>bold</b> tale.</p>")
	assert.Contains(t, got, "**bold**")
	assert.NotContains(t, got, "<p>")
}
