package llm

import "strings"

// StripCodeFence removes a surrounding markdown code fence from model output
// so the remainder parses as JSON. Models wrap JSON in ```json fences often
// enough that every JSON consumer needs this.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
