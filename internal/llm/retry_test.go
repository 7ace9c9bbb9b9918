package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuotaMessage(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{"quota keyword", "You exceeded your current quota", true},
		{"rate limit with space", "Rate limit reached for requests", true},
		{"rate limit with underscore", "error code: rate_limit_exceeded", true},
		{"resource exhausted", "RESOURCE EXHAUSTED: try later", true},
		{"too many requests", "429 Too Many Requests", true},
		{"unrelated error", "model not found", false},
		{"empty message", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsQuotaMessage(tc.message))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripCodeFence(tc.input))
		})
	}
}
