package analysis

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// FailureSignature maps an error-text pattern to a known failure category
// with a human-readable reason and suggested fix. The table is ordered:
// lookup is first-match-wins, so specific signatures must precede generic
// catch-alls. Adding a category means appending one entry; parsing logic
// never changes.
type FailureSignature struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
	Reason   string `yaml:"reason"`
	Fix      string `yaml:"fix"`

	re *regexp.Regexp
}

// DefaultSignatures is the built-in table, mirroring the categories seen
// in real QA reports. NullPointer/NullReference sits above the generic
// null check, and the bare exception catch-all comes last.
func DefaultSignatures() []FailureSignature {
	return []FailureSignature{
		{
			Pattern:  `nullpointerexception|nullreferenceexception`,
			Category: "null-reference",
			Reason:   "Boş referans (null) üzerinden erişim yapıldı",
			Fix:      "Null kontrolleri ekleyin ve nesnenin oluşturulduğundan emin olun.",
		},
		{
			Pattern:  `timeout|timed out|zaman aşımı|zaman asimi`,
			Category: "timeout",
			Reason:   "Test zaman aşımına uğradı",
			Fix:      "Zaman aşımı limitini artırın veya performans darboğazlarını araştırın.",
		},
		{
			Pattern:  `connection|network|bağlantı|baglanti`,
			Category: "connection",
			Reason:   "Bağlantı veya ağ hatası",
			Fix:      "Servislerin ve ağ bağlantısının çalıştığını doğrulayın.",
		},
		{
			Pattern:  `permission|yetki`,
			Category: "permission",
			Reason:   "Yetki hatası",
			Fix:      "Kullanıcı veya servis hesabına gerekli izinleri tanımlayın.",
		},
		{
			Pattern:  `authentication|unauthorized|kimlik doğrulama|\bauth\b`,
			Category: "authentication",
			Reason:   "Kimlik doğrulama başarısız",
			Fix:      "Kimlik doğrulama bilgilerini ve token geçerliliğini kontrol edin.",
		},
		{
			Pattern:  `assertion|assert`,
			Category: "assertion",
			Reason:   "Beklenen koşul sağlanamadı",
			Fix:      "Testteki beklenen değerleri veya uygulama mantığını gözden geçirin.",
		},
		{
			Pattern:  `\bnull\b|\bnone\b|\bnil\b`,
			Category: "null-value",
			Reason:   "Boş/None değer kullanımı",
			Fix:      "Null kontrolleri ekleyin ve gerekli verilerin sağlandığından emin olun.",
		},
		{
			Pattern:  `exception|error|hata`,
			Category: "exception",
			Reason:   "Beklenmeyen istisna fırlatıldı",
			Fix:      "Stack trace üzerinden istisnanın kaynağını tespit edin.",
		},
	}
}

// CompileSignatures validates and compiles the pattern of every entry.
// Patterns are matched case-insensitively.
func CompileSignatures(signatures []FailureSignature) ([]FailureSignature, error) {
	out := make([]FailureSignature, len(signatures))
	for i, sig := range signatures {
		if sig.Pattern == "" {
			return nil, fmt.Errorf("signature %d (%s): empty pattern", i, sig.Category)
		}
		re, err := regexp.Compile(`(?i)` + sig.Pattern)
		if err != nil {
			return nil, fmt.Errorf("signature %d (%s): %w", i, sig.Category, err)
		}
		sig.re = re
		out[i] = sig
	}
	return out, nil
}

// LoadSignatures reads an ordered signature table from a YAML file. The
// file fully replaces the built-in table so operators control ordering.
func LoadSignatures(path string) ([]FailureSignature, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signatures file: %w", err)
	}
	var signatures []FailureSignature
	if err := yaml.Unmarshal(raw, &signatures); err != nil {
		return nil, fmt.Errorf("parse signatures yaml: %w", err)
	}
	if len(signatures) == 0 {
		return nil, fmt.Errorf("signatures file %s: empty table", path)
	}
	return CompileSignatures(signatures)
}
