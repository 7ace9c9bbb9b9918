package normalize

import (
	"regexp"
	"strings"
)

// DefaultActionCap bounds the list produced by SplitActions.
const DefaultActionCap = 8

// One alternation so the split order is stable across delimiter types:
// newlines, bullet characters, literal hyphens, and "N. " step markers. The
// marker requires trailing whitespace so decimal values like "1.5 bar"
// survive intact.
var actionDelimRe = regexp.MustCompile(`[\n•-]|\d+\.\s+`)

// SplitActions converts free prose into a deduplicated, capped list of
// discrete action items. Carriage returns are stripped before splitting so
// CRLF input behaves like LF.
func SplitActions(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultActionCap
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "\r", "")
	parts := actionDelimRe.Split(text, -1)

	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
		if len(out) == limit {
			break
		}
	}

	return out
}

// DedupCap deduplicates a sequence preserving first-seen order and truncates
// it to max entries. Used by the merger to enforce per-record caps.
func DedupCap(items []string, max int) []string {
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}

	return out
}
