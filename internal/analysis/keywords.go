package analysis

import "unicode"

// Status keyword vocabularies are data, not control flow: callers may
// swap or extend them without touching the parser. Both English and
// Turkish report layouts are covered, including ASCII-folded spellings
// produced by some PDF generators.
var (
	DefaultPassKeywords = []string{
		"PASSED", "PASS", "SUCCESS", "OK", "✓",
		"Başarılı", "Geçti", "Basarili", "Gecti",
	}
	DefaultFailKeywords = []string{
		"FAILED", "FAIL", "ERROR", "EXCEPTION", "✗",
		"Başarısız", "Kaldı", "Hata", "Basarisiz", "Kaldi",
	}
)

// keywordHit records where a vocabulary entry matched within a line.
// Offsets are rune indices: lowercasing Turkish text can change byte
// lengths, so byte offsets would not survive the case fold.
type keywordHit struct {
	keyword string
	start   int
	end     int
}

// findKeyword returns the earliest case-insensitive, word-bounded match of
// any vocabulary entry within line. Word bounding keeps "PASS" from firing
// inside "BYPASS" while still letting the longer "PASSED" entry match on
// its own. Symbol entries (✓, ✗) match as plain substrings.
func findKeyword(line []rune, vocabulary []string) (keywordHit, bool) {
	lower := lowerRunes(line)
	best := keywordHit{start: -1}

	for _, keyword := range vocabulary {
		needle := lowerRunes([]rune(keyword))
		for start := 0; start+len(needle) <= len(lower); start++ {
			if !runesEqual(lower[start:start+len(needle)], needle) {
				continue
			}
			end := start + len(needle)
			if !isWordBounded(lower, start, end) {
				continue
			}
			if best.start < 0 || start < best.start {
				best = keywordHit{keyword: keyword, start: start, end: end}
			}
			break
		}
	}

	if best.start < 0 {
		return keywordHit{}, false
	}
	return best, true
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordBounded(lower []rune, start, end int) bool {
	if start > 0 && isWordRune(lower[start-1]) {
		return false
	}
	if end < len(lower) && isWordRune(lower[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
