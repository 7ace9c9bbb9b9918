package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitActions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected []string
	}{
		{
			name:     "newline separated",
			input:    "Check pump\nReset boiler",
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "bullet separated",
			input:    "• Check pump • Bleed radiator",
			expected: []string{"Check pump", "Bleed radiator"},
		},
		{
			name:     "numbered steps",
			input:    "1. Check gas supply 2. Reset the boiler 3. Test ignition",
			expected: []string{"Check gas supply", "Reset the boiler", "Test ignition"},
		},
		{
			name:     "hyphen separated",
			input:    "- Check valve - Test pressure",
			expected: []string{"Check valve", "Test pressure"},
		},
		{
			name:     "hyphenated words split too",
			input:    "Re-seal the joint",
			expected: []string{"Re", "seal the joint"},
		},
		{
			name:     "decimal values survive",
			input:    "Repressurise to 1.5 bar\nCheck the gauge",
			expected: []string{"Repressurise to 1.5 bar", "Check the gauge"},
		},
		{
			name:     "trailing number with dot not a marker",
			input:    "See section 2.",
			expected: []string{"See section 2."},
		},
		{
			name:     "crlf treated as lf",
			input:    "Check pump\r\nReset boiler",
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "duplicates removed in first-seen order",
			input:    "Check pump\nReset boiler\nCheck pump",
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "empty segments dropped",
			input:    "\n\nCheck pump\n\n",
			expected: []string{"Check pump"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only input",
			input:    "   \n  ",
			expected: nil,
		},
		{
			name:     "explicit limit",
			input:    "a\nb\nc\nd",
			limit:    2,
			expected: []string{"a", "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitActions(tc.input, tc.limit))
		})
	}
}

func TestSplitActionsDefaultCap(t *testing.T) {
	lines := make([]string, 0, 20)
	for r := 'a'; r < 'a'+20; r++ {
		lines = append(lines, string(r))
	}

	got := SplitActions(strings.Join(lines, "\n"), 0)
	assert.Len(t, got, DefaultActionCap)
	assert.Equal(t, lines[:DefaultActionCap], got)
}

func TestSplitActionsIdempotent(t *testing.T) {
	first := SplitActions("1. Check gas supply 2. Reset the boiler", 0)
	second := SplitActions(strings.Join(first, "\n"), 0)
	assert.Equal(t, first, second)
}

func TestDedupCap(t *testing.T) {
	in := []string{" a ", "b", "a", "", "c", "d"}
	assert.Equal(t, []string{"a", "b", "c"}, DedupCap(in, 3))
	assert.Nil(t, DedupCap(nil, 5))
	assert.Nil(t, DedupCap([]string{}, 5))
}
