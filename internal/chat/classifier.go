package chat

import (
	"regexp"
	"strings"
)

// Entities are the diagnostic signals detected in a free-text message.
type Entities struct {
	SystemType        string
	Manufacturer      string
	DetailMode        *bool
	RegulationTrigger bool
}

// Classifier detects diagnostic entities in user input. The matching
// strategy is injectable so the regex implementation can be swapped without
// touching the chat service.
type Classifier interface {
	Classify(text string) Entities
}

// RegexClassifier is the default pattern-based classifier.
type RegexClassifier struct {
	systems       map[string]*regexp.Regexp
	manufacturers []string
	regulation    *regexp.Regexp
}

// Known UK boiler brands checked with simple substring matching.
var knownManufacturers = []string{
	"Worcester", "Vaillant", "Ideal", "Baxi", "Glow-worm", "Potterton",
	"Viessmann", "Alpha", "Ferroli", "Main", "Vokera", "Ariston",
}

// NewRegexClassifier creates the default classifier.
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{
		systems: map[string]*regexp.Regexp{
			"combi":    regexp.MustCompile(`(?i)\bcombi\b`),
			"system":   regexp.MustCompile(`(?i)\bsystem boiler\b`),
			"standard": regexp.MustCompile(`(?i)\b(standard|conventional|heat.only)\b`),
		},
		manufacturers: knownManufacturers,
		regulation:    regexp.MustCompile(`(?i)\b(flue|combustion|burner pressure|gas valve|seal)\b`),
	}
}

// Classify scans text for system type, manufacturer, detail-mode overrides,
// and regulation triggers.
func (c *RegexClassifier) Classify(text string) Entities {
	var ents Entities

	for system, re := range c.systems {
		if re.MatchString(text) {
			ents.SystemType = system
			break
		}
	}

	lower := strings.ToLower(text)
	for _, brand := range c.manufacturers {
		if strings.Contains(lower, strings.ToLower(brand)) {
			ents.Manufacturer = brand
			break
		}
	}

	// Manual overrides win over phrasing triggers.
	switch {
	case strings.Contains(lower, "@detailed"):
		ents.DetailMode = boolPtr(true)
	case strings.Contains(lower, "@basic"):
		ents.DetailMode = boolPtr(false)
	case strings.Contains(lower, "how do i check") ||
		strings.Contains(lower, "walk me through") ||
		strings.Contains(lower, "what tools"):
		ents.DetailMode = boolPtr(true)
	}

	ents.RegulationTrigger = c.regulation.MatchString(text)
	return ents
}

func boolPtr(b bool) *bool { return &b }
