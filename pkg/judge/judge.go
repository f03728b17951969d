package judge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/provider"
	"meridian-hq/minos/pkg/trace"
)

// InvalidCritiqueError indicates the external evaluator returned an
// internally inconsistent verdict. It is treated as a provider contract
// violation and aborts the cycle.
type InvalidCritiqueError struct {
	// ArticleID is the cited article, when the inconsistency involves one.
	ArticleID string

	// Reason describes the inconsistency.
	Reason string
}

// Error returns the error message.
func (e *InvalidCritiqueError) Error() string {
	if e.ArticleID != "" {
		return fmt.Sprintf("invalid critique citing %q: %s", e.ArticleID, e.Reason)
	}
	return fmt.Sprintf("invalid critique: %s", e.Reason)
}

// Judge evaluates drafts against active laws through a Capability.
type Judge struct {
	capability provider.Capability
	logger     *slog.Logger
}

// New creates a judge delegating to the given capability.
func New(capability provider.Capability, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{
		capability: capability,
		logger:     logger.With("component", "judge"),
	}
}

// Evaluate presents the draft and active laws to the capability and returns
// its verdict. Laws are presented sorted by id so the presentation is
// deterministic regardless of selection order. When the verdict reports a
// violation, the cited article must be a member of activeLaws; otherwise
// Evaluate fails with InvalidCritiqueError. The verdict's severity and
// reasoning are passed through unmodified: the engine never second-guesses
// the external judgment.
func (j *Judge) Evaluate(ctx context.Context, draft string, activeLaws []law.Law) (*trace.Critique, error) {
	presented := make([]law.Law, len(activeLaws))
	copy(presented, activeLaws)
	sort.Slice(presented, func(a, b int) bool { return presented[a].ID < presented[b].ID })

	j.logger.Debug("evaluating draft",
		"draft_len", len(draft),
		"law_count", len(presented),
	)

	critique, err := j.capability.Evaluate(ctx, draft, presented)
	if err != nil {
		return nil, err
	}

	if err := critique.Validate(); err != nil {
		return nil, &InvalidCritiqueError{ArticleID: critique.ArticleID, Reason: err.Error()}
	}
	if critique.Violation {
		if !member(presented, critique.ArticleID) {
			return nil, &InvalidCritiqueError{
				ArticleID: critique.ArticleID,
				Reason:    "cited article is not in the active rule set",
			}
		}
	}

	return critique, nil
}

// member reports whether laws contains the given id.
func member(laws []law.Law, id string) bool {
	for _, l := range laws {
		if l.ID == id {
			return true
		}
	}
	return false
}
