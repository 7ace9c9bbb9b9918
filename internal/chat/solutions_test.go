package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSolutions(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected []string
	}{
		{
			name:     "nil value",
			input:    nil,
			expected: nil,
		},
		{
			name:     "native string slice",
			input:    []string{"Check pump", "Reset boiler"},
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "any slice with blanks dropped",
			input:    []any{"Check pump", "", "Reset boiler", 42},
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "postgres array literal",
			input:    `{Check pump,Reset boiler}`,
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "postgres array literal with quoted commas",
			input:    `{"Check pump, then bleed","Reset boiler"}`,
			expected: []string{"Check pump, then bleed", "Reset boiler"},
		},
		{
			name:     "empty postgres literal",
			input:    `{}`,
			expected: nil,
		},
		{
			name:     "json array string",
			input:    `["Check pump","Reset boiler"]`,
			expected: []string{"Check pump", "Reset boiler"},
		},
		{
			name:     "plain string",
			input:    "Check the condensate trap",
			expected: []string{"Check the condensate trap"},
		},
		{
			name:     "blank string",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "unsupported type",
			input:    3.14,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseSolutions(tc.input))
		})
	}
}
