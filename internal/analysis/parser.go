package analysis

import (
	"fmt"
	"strings"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

const defaultNameLookback = 3

// Options configures a Parser. Zero values fall back to the defaults, so
// Parser{} behaves identically to NewParser(Options{}).
type Options struct {
	// PassKeywords and FailKeywords are the status vocabularies, matched
	// case-insensitively and word-bounded.
	PassKeywords []string
	FailKeywords []string
	// NameMatchers are tried in order against the keyword line first and
	// then against preceding lines.
	NameMatchers []NameMatcher
	// NameLookback is how many preceding lines are searched for a test
	// name when the keyword line itself has none.
	NameLookback int
}

// Parser turns the line-ordered text of a report into test records.
// It holds no per-parse state and is safe for concurrent use.
type Parser struct {
	passKeywords []string
	failKeywords []string
	nameMatchers []NameMatcher
	nameLookback int
}

func NewParser(opts Options) *Parser {
	p := &Parser{
		passKeywords: opts.PassKeywords,
		failKeywords: opts.FailKeywords,
		nameMatchers: opts.NameMatchers,
		nameLookback: opts.NameLookback,
	}
	if len(p.passKeywords) == 0 {
		p.passKeywords = DefaultPassKeywords
	}
	if len(p.failKeywords) == 0 {
		p.failKeywords = DefaultFailKeywords
	}
	if len(p.nameMatchers) == 0 {
		p.nameMatchers = DefaultNameMatchers()
	}
	if p.nameLookback <= 0 {
		p.nameLookback = defaultNameLookback
	}
	return p
}

// Parse scans lines for test entries and returns them in document order.
// Zero recognized entries is a legitimate outcome and yields an empty,
// non-nil slice, never an error.
func (p *Parser) Parse(lines []string) []domain.TestRecord {
	records := []domain.TestRecord{}
	consumed := make(map[int]bool)

	for i, raw := range lines {
		if consumed[i] {
			continue
		}
		line := []rune(strings.TrimSpace(raw))
		if len(line) == 0 {
			continue
		}

		passHit, hasPass := findKeyword(line, p.passKeywords)
		failHit, hasFail := findKeyword(line, p.failKeywords)
		if !hasPass && !hasFail {
			continue
		}

		// A line matching both vocabularies is classified FAIL: surfacing
		// a possible failure beats masking one.
		status := domain.TestPassed
		hit := passHit
		if hasFail {
			status = domain.TestFailed
			hit = failHit
		}

		cut := hit.start
		if hasPass && hasFail && passHit.start < cut {
			cut = passHit.start
		}

		record := domain.TestRecord{
			Status: status,
			Name:   p.resolveName(lines, i, string(line[:cut]), len(records)+1),
		}
		if status == domain.TestFailed {
			message, usedLine := p.failureMessage(lines, i, string(line[hit.end:]))
			record.ErrorMessage = message
			if usedLine >= 0 {
				consumed[usedLine] = true
			}
		}
		records = append(records, record)
	}

	return records
}

// resolveName tries the matchers on the keyword line's prefix, then walks
// back through preceding lines, and finally falls back to a positional name.
func (p *Parser) resolveName(lines []string, index int, prefix string, position int) string {
	if name, ok := matchName(p.nameMatchers, prefix); ok {
		return name
	}
	for back := 1; back <= p.nameLookback && index-back >= 0; back++ {
		candidate := strings.TrimSpace(lines[index-back])
		if candidate == "" {
			continue
		}
		if name, ok := matchName(p.nameMatchers, candidate); ok {
			return name
		}
	}
	return fmt.Sprintf("Test %d", position)
}

// failureMessage returns the error text for a FAIL entry: the remainder of
// the keyword line if present, otherwise the next non-empty line. The
// second return value is the index of a consumed follow-up line, or -1.
func (p *Parser) failureMessage(lines []string, index int, remainder string) (string, int) {
	if message := cleanMessage(remainder); message != "" {
		return message, -1
	}
	for next := index + 1; next < len(lines); next++ {
		candidate := strings.TrimSpace(lines[next])
		if candidate == "" {
			continue
		}
		return candidate, next
	}
	return "", -1
}

// cleanMessage strips the separator between a status keyword and the
// trailing error text ("FAIL: boom" → "boom").
func cleanMessage(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		switch r {
		case ' ', '\t', ':', '-', '–', '—', ',', ';':
			return true
		}
		return false
	})
}
