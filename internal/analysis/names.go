package analysis

import (
	"regexp"
	"strings"
)

// NameMatcher is one strategy for pulling a test name out of a line.
// Matchers are applied in declared order; the first match wins.
type NameMatcher struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultNameMatchers covers the layouts seen in real reports:
// "Test: <name>" / "Test 3: <name>", snake_case identifiers,
// "TEST - <name>" headers and the Turkish "Senaryo: <name>" form.
func DefaultNameMatchers() []NameMatcher {
	return []NameMatcher{
		{Name: "test-colon", Pattern: regexp.MustCompile(`(?i)\btest\s*(?:\d+\s*)?:\s*(.+)`)},
		{Name: "test-identifier", Pattern: regexp.MustCompile(`(?i)\b(test_[\p{L}\d_]+)`)},
		{Name: "test-dash", Pattern: regexp.MustCompile(`(?i)\btest\s+-\s+(.+)`)},
		{Name: "senaryo-colon", Pattern: regexp.MustCompile(`(?i)\bsenaryo\s*(?:\d+\s*)?:\s*(.+)`)},
	}
}

// matchName runs the matcher list over a line and returns the cleaned
// capture of the first matcher that fires.
func matchName(matchers []NameMatcher, line string) (string, bool) {
	for _, matcher := range matchers {
		groups := matcher.Pattern.FindStringSubmatch(line)
		if len(groups) < 2 {
			continue
		}
		name := cleanName(groups[1])
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// cleanName drops separator debris left over when the capture ran up to a
// status keyword that was cut off the line ("Login Attempt - " → "Login Attempt").
func cleanName(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		switch r {
		case ' ', '\t', ':', '-', '–', '—', '.', ',', ';':
			return true
		}
		return false
	})
}
