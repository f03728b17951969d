package provider

import (
	"context"
	"strings"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/trace"
)

// Simulated is a deterministic offline Capability for demonstration and
// testing. It recognises a small set of trigger phrases and otherwise
// reports compliance.
type Simulated struct{}

// NewSimulated creates the offline capability.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Evaluate returns canned verdicts for the known trigger phrases.
func (s *Simulated) Evaluate(ctx context.Context, draft string, laws []law.Law) (*trace.Critique, error) {
	if containsFold(draft, "hunch") {
		return &trace.Critique{
			Violation: true,
			ArticleID: "GCP.4",
			Severity:  law.SeverityHigh,
			Reasoning: "The draft recommends a dosage change based on a hunch, which violates the requirement for evidence-based claims.",
		}, nil
	}
	if containsFold(draft, "NCT99999") {
		return &trace.Critique{
			Violation: true,
			ArticleID: "REF.1",
			Severity:  law.SeverityMedium,
			Reasoning: "The draft cites study NCT99999 which does not resolve to the approved references list.",
		}, nil
	}
	return &trace.Critique{
		Violation: false,
		Reasoning: "The content appears compliant with the provided laws.",
	}, nil
}

// Generate returns canned rewrites for the known trigger phrases and echoes
// the draft otherwise.
func (s *Simulated) Generate(ctx context.Context, draft string, critique trace.Critique, cited *law.Law) (string, error) {
	if containsFold(draft, "hunch") {
		return "Based on current data, a dosage change is not supported without further trial evidence.", nil
	}
	if containsFold(draft, "NCT99999") {
		return "The summary cites a relevant study (citation needed).", nil
	}
	return draft, nil
}

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
