package rulebased

import (
	"context"

	"github.com/emrekaratas/test-report-analyzer/internal/analysis"
	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

const Provider = "rule-based"

// Analyzer classifies failures with the ordered signature table alone.
// It is the default when no AI provider is configured and the fallback
// for every AI analyzer.
type Analyzer struct {
	classifier *analysis.Classifier
}

func New(classifier *analysis.Classifier) *Analyzer {
	return &Analyzer{classifier: classifier}
}

func (a *Analyzer) Analyze(_ context.Context, _, errorMessage string) ports.FailureAnalysis {
	c := a.classifier.Classify(errorMessage)
	return ports.FailureAnalysis{
		Category: c.Category,
		Reason:   c.Reason,
		Fix:      c.Fix,
		Provider: Provider,
	}
}

func (a *Analyzer) Status() domain.AnalyzerStatus {
	return domain.AnalyzerStatus{
		Provider:  Provider,
		Available: true,
		Status:    "signature table active",
	}
}
