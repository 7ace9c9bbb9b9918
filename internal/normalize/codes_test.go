package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		isNil    bool
	}{
		{"dotted code collapses", "E.119", "E119", false},
		{"lowercase dotted code", "e.03", "E03", false},
		{"single digit after dot", "L.9", "L9", false},
		{"three digits after dot", "A.123", "A123", false},
		{"only first dotted occurrence collapses", "e.119 extra e.22", "E119 EXTRA E.22", false},
		{"trailing plus stripped", "F22+", "F22", false},
		{"only one trailing plus stripped", "F22++", "F22+", false},
		{"dotted code with trailing plus", "f.75+", "F75", false},
		{"plain code uppercased", "f1", "F1", false},
		{"surrounding whitespace trimmed", "  f1  ", "F1", false},
		{"four digits after dot untouched", "E.1234", "E.1234", false},
		{"four digit run at end untouched", "fault E.1234", "FAULT E.1234", false},
		{"four digit run skipped, later code collapses", "E.1234 F.22", "E.1234 F22", false},
		{"empty input", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FaultCode(tc.input)
			if tc.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, *got)
		})
	}
}

func TestGCNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces become dashes", "47 075 06", "47-075-06"},
		{"already canonical", "47-075-06", "47-075-06"},
		{"GC prefix dropped", "GC4707506", "47-075-06"},
		{"lowercase gc prefix dropped", "gc4707506", "47-075-06"},
		{"GC prefix with spaces", "GC 47 075 06", "47-075-06"},
		{"bare seven digits re-dashed", "4707506", "47-075-06"},
		{"whitespace runs collapse", "47   075   06", "47-075-06"},
		{"short run left alone", "1234", "1234"},
		{"non-numeric left alone", "PENDING-1", "PENDING-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GCNumber(tc.input))
		})
	}
}

func TestValidGCNumber(t *testing.T) {
	assert.True(t, ValidGCNumber("47-075-06"))
	assert.False(t, ValidGCNumber("4707506"))
	assert.False(t, ValidGCNumber("47-75-06"))
	assert.False(t, ValidGCNumber("1234"))
	assert.False(t, ValidGCNumber("PENDING-1"))
	assert.False(t, ValidGCNumber(""))
}

func TestTrimmedFields(t *testing.T) {
	m := Manufacturer("  Worcester  ")
	require.NotNil(t, m)
	assert.Equal(t, "Worcester", *m)

	// Case is preserved: bucketing happens at the merge key, not here.
	m = Manufacturer("WORCESTER")
	require.NotNil(t, m)
	assert.Equal(t, "WORCESTER", *m)

	assert.Nil(t, Model(""))
	assert.Nil(t, System("   "))
}
