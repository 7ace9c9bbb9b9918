// Package normalize canonicalizes the noisy manufacturer, model, and fault-code
// text that arrives from manuals and legacy source tables.
package normalize

import (
	"regexp"
	"strings"
)

var (
	dottedCodeRe = regexp.MustCompile(`([A-Za-z])\.(\d{1,3})`)
	gcValidRe    = regexp.MustCompile(`^\d{2}-\d{3}-\d{2}$`)
	gcBareRe     = regexp.MustCompile(`^\d{7}$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Manufacturer trims a raw manufacturer name. Returns nil for empty input.
// Case is preserved; case handling belongs to merge-key construction.
func Manufacturer(s string) *string {
	return trimmed(s)
}

// Model trims a raw model name. Returns nil for empty input.
func Model(s string) *string {
	return trimmed(s)
}

// System trims a raw heating-system type. Returns nil for empty input.
func System(s string) *string {
	return trimmed(s)
}

// FaultCode canonicalizes a raw fault code: the first <letter>.<1-3 digits>
// occurrence is collapsed ("E.119" -> "E119"), one trailing "+" is stripped,
// and the whole result is uppercased. Later dotted segments are left as-is;
// stored merge keys depend on that, so it must not be widened.
func FaultCode(s string) *string {
	code := strings.TrimSpace(s)
	if code == "" {
		return nil
	}

	// The digit group must end the dotted run. RE2 has no lookahead, so a
	// match followed by a fourth digit (e.g. "E.1234") is rejected here.
	for _, loc := range dottedCodeRe.FindAllStringSubmatchIndex(code, -1) {
		if loc[1] < len(code) && isDigit(code[loc[1]]) {
			continue
		}
		code = code[:loc[0]] + code[loc[2]:loc[3]] + code[loc[4]:loc[5]] + code[loc[1]:]
		break
	}

	code = strings.TrimSuffix(code, "+")
	code = strings.ToUpper(code)
	return &code
}

// GCNumber reformats a candidate Gas Council number into the canonical
// XX-XXX-XX form: a leading "GC" brand prefix is dropped, whitespace runs
// collapse to a single dash, and a bare 7-digit run is re-dashed.
func GCNumber(s string) string {
	gc := strings.TrimSpace(s)
	gc = strings.TrimPrefix(gc, "GC")
	gc = strings.TrimPrefix(gc, "gc")
	gc = strings.TrimSpace(gc)
	gc = whitespaceRe.ReplaceAllString(gc, "-")

	if gcBareRe.MatchString(gc) {
		gc = gc[0:2] + "-" + gc[2:5] + "-" + gc[5:7]
	}

	return gc
}

// ValidGCNumber reports whether a normalized GC number matches the strict
// two-three-two digit format.
func ValidGCNumber(s string) bool {
	return gcValidRe.MatchString(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func trimmed(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}
