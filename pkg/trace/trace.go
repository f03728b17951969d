package trace

import (
	"fmt"
	"time"

	"meridian-hq/minos/pkg/law"
)

// Status is the terminal state of one compliance cycle.
type Status string

const (
	// StatusApproved means the content was certified compliant as-is.
	StatusApproved Status = "APPROVED"

	// StatusRevised means the content was rewritten and the rewritten
	// version was certified compliant.
	StatusRevised Status = "REVISED"

	// StatusBlocked means the content was never certified compliant:
	// either a red line triggered before any draft was judged, or the
	// revision budget was exhausted with a violation still standing.
	StatusBlocked Status = "BLOCKED"
)

// Critique is the evaluator's verdict for one draft against one rule set.
// When Violation is false, ArticleID and Severity are absent.
type Critique struct {
	// Violation reports whether the draft violates any active law.
	Violation bool `json:"violation"`

	// ArticleID identifies the single most severe violated law, or is
	// empty when Violation is false.
	ArticleID string `json:"article_id,omitempty"`

	// Severity is copied from the cited law, or zero when Violation is
	// false.
	Severity law.Severity `json:"severity,omitempty"`

	// Reasoning is the evaluator's free-text explanation. It is opaque to
	// the engine and carried through for audit only.
	Reasoning string `json:"reasoning"`
}

// Validate checks the internal consistency of the critique: a non-violation
// must not cite an article or carry a severity.
func (c *Critique) Validate() error {
	if !c.Violation {
		if c.ArticleID != "" {
			return fmt.Errorf("critique reports no violation but cites article %q", c.ArticleID)
		}
		if c.Severity != 0 {
			return fmt.Errorf("critique reports no violation but carries severity %s", c.Severity)
		}
		return nil
	}
	if c.ArticleID == "" {
		return fmt.Errorf("critique reports a violation but cites no article")
	}
	return nil
}

// ComplianceTrace is the audit record and return value of one orchestration
// run. It is created once per cycle, fully populated by the time the cycle
// returns, and handed to the caller as a value: never mutated afterwards.
type ComplianceTrace struct {
	// ID uniquely identifies this cycle run.
	ID string `json:"id"`

	// InputPrompt is the caller's original prompt, immutable once set.
	InputPrompt string `json:"input_prompt"`

	// InputDraft is the caller's original draft, empty in prompt-only mode.
	InputDraft string `json:"input_draft,omitempty"`

	// Status is the terminal state of the cycle.
	Status Status `json:"status"`

	// Critiques holds every critique produced during the run, in round
	// order. Its length equals the number of evaluation rounds executed.
	Critiques []Critique `json:"critiques"`

	// FinalOutput is the draft ultimately approved, or the last attempted
	// draft when the cycle blocked after exhausting retries. Empty when the
	// cycle blocked before any draft existed.
	FinalOutput string `json:"final_output,omitempty"`

	// RoundsUsed counts the evaluation rounds actually executed. A cycle
	// approved on round one has RoundsUsed == 1 and zero revisions.
	RoundsUsed int `json:"rounds_used"`

	// Delta is the textual diff between InputDraft and FinalOutput when
	// both exist and differ; empty otherwise.
	Delta string `json:"delta,omitempty"`

	// BestEffort marks a REVISED trace whose final output was never
	// certified compliant: the revision budget ran out and the engine was
	// configured to release the last attempt rather than block.
	BestEffort bool `json:"best_effort,omitempty"`

	// BlockedBy identifies the red-line law that blocked the prompt, when
	// the cycle terminated at the screening stage.
	BlockedBy string `json:"blocked_by,omitempty"`

	// EvidenceSpan is the prompt fragment matched by the red-line pattern,
	// when the cycle terminated at the screening stage.
	EvidenceSpan string `json:"evidence_span,omitempty"`

	// LawVersion records the snapshot version the cycle ran against.
	LawVersion string `json:"law_version,omitempty"`

	// StartedAt and CompletedAt bound the cycle's wall-clock execution.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Certified reports whether the final output was certified compliant.
func (t *ComplianceTrace) Certified() bool {
	return (t.Status == StatusApproved || t.Status == StatusRevised) && !t.BestEffort
}
