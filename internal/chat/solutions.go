package chat

import (
	"encoding/json"
	"strings"
)

// ParseSolutions coerces the solutions column into a string list. The value
// may arrive as a native list, a Postgres text[] literal ("{a,b}"), a JSON
// array string, or a plain string.
func ParseSolutions(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return parseSolutionString(v)
	default:
		return nil
	}
}

func parseSolutionString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// JSON array form first.
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return list
		}
	}

	// Postgres text[] literal form.
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		if inner == "" {
			return nil
		}
		parts := splitArrayLiteral(inner)
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			part = strings.Trim(part, `"`)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	return []string{s}
}

// splitArrayLiteral splits a Postgres array literal body on commas that are
// not inside double quotes.
func splitArrayLiteral(s string) []string {
	var parts []string
	var sb strings.Builder
	inQuotes := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			sb.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	parts = append(parts, sb.String())
	return parts
}
