package analysis

// Classification is the outcome of matching error text against the
// signature table. It is always fully populated: an unmatched message
// degrades to the fallback pair instead of nulls.
type Classification struct {
	Category string
	Reason   string
	Fix      string
}

// FallbackClassification is returned when no signature matches. It keeps
// the classifier total over all inputs, including the empty string.
var FallbackClassification = Classification{
	Category: "unspecified",
	Reason:   "Belirtilmeyen hata",
	Fix:      "Log kayıtlarını inceleyin.",
}

// Classifier assigns a failure category to error text by walking an
// ordered signature table, first match wins. It never fails.
type Classifier struct {
	signatures []FailureSignature
}

// NewClassifier builds a classifier over a compiled signature table.
// Pass the result of CompileSignatures or LoadSignatures; a nil or empty
// table classifies everything as the fallback.
func NewClassifier(signatures []FailureSignature) *Classifier {
	return &Classifier{signatures: signatures}
}

// NewDefaultClassifier uses the built-in table.
func NewDefaultClassifier() *Classifier {
	signatures, err := CompileSignatures(DefaultSignatures())
	if err != nil {
		// The built-in table is compile-time constant; a bad pattern is a
		// programming error, not an input condition.
		panic(err)
	}
	return NewClassifier(signatures)
}

// Classify matches errorMessage against the table in order and returns
// the first hit, or the fallback pair when nothing matches.
func (c *Classifier) Classify(errorMessage string) Classification {
	for _, sig := range c.signatures {
		if sig.re == nil {
			continue
		}
		if sig.re.MatchString(errorMessage) {
			return Classification{Category: sig.Category, Reason: sig.Reason, Fix: sig.Fix}
		}
	}
	return FallbackClassification
}
