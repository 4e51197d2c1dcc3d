package openaicompat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emrekaratas/test-report-analyzer/internal/analysis"
	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/resilience"
)

// Analyzer asks the model for a failure reason and suggested fix. Any
// transport, parse or content problem degrades to the signature-table
// classifier so processing never stalls on the AI side.
type Analyzer struct {
	client     *Client
	provider   string
	classifier *analysis.Classifier
	executor   *resilience.Executor
}

func NewAnalyzer(client *Client, provider string, classifier *analysis.Classifier, executor *resilience.Executor) *Analyzer {
	return &Analyzer{
		client:     client,
		provider:   provider,
		classifier: classifier,
		executor:   executor,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, testName, errorMessage string) ports.FailureAnalysis {
	analysisResult, err := a.analyzeWithModel(ctx, testName, errorMessage)
	if err != nil {
		slog.Warn("ai_analysis_fallback", "provider", a.provider, "test", testName, "error", err)
		return a.ruleBased(errorMessage)
	}
	return analysisResult
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, testName, errorMessage string) (ports.FailureAnalysis, error) {
	prompt := buildAnalysisPrompt(testName, errorMessage)

	var content string
	call := func(callCtx context.Context) error {
		var err error
		content, err = a.client.chatCompletion(callCtx, analystSystemPrompt, prompt)
		return err
	}

	var err error
	if a.executor != nil {
		err = a.executor.Execute(ctx, "llm.analyze", call, classifyLLMError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return ports.FailureAnalysis{}, err
	}

	var parsed struct {
		FailureReason string `json:"failure_reason"`
		SuggestedFix  string `json:"suggested_fix"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &parsed); err != nil {
		return ports.FailureAnalysis{}, fmt.Errorf("parse analysis json: %w", err)
	}

	reason := strings.TrimSpace(parsed.FailureReason)
	fix := strings.TrimSpace(parsed.SuggestedFix)
	if reason == "" || fix == "" {
		return ports.FailureAnalysis{}, fmt.Errorf("analysis response is missing fields")
	}

	// The category still comes from the signature table so the
	// categorical breakdown stays consistent across providers.
	return ports.FailureAnalysis{
		Category: a.classifier.Classify(errorMessage).Category,
		Reason:   reason,
		Fix:      fix,
		Provider: a.provider,
	}, nil
}

func (a *Analyzer) ruleBased(errorMessage string) ports.FailureAnalysis {
	c := a.classifier.Classify(errorMessage)
	return ports.FailureAnalysis{
		Category: c.Category,
		Reason:   c.Reason,
		Fix:      c.Fix,
		Provider: "rule-based",
	}
}

func (a *Analyzer) Status() domain.AnalyzerStatus {
	return domain.AnalyzerStatus{
		Provider:  a.provider,
		Model:     a.client.Model(),
		Available: true,
		Status:    "configured",
	}
}
