package revise

import (
	"context"
	"log/slog"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/provider"
	"meridian-hq/minos/pkg/trace"
)

// Engine produces candidate replacement drafts through a Capability.
type Engine struct {
	capability provider.Capability
	logger     *slog.Logger
}

// New creates a revision engine delegating to the given capability.
func New(capability provider.Capability, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		capability: capability,
		logger:     logger.With("component", "revise"),
	}
}

// Revise presents the draft and the full critique, including the cited
// law's text when it is known, and returns the candidate replacement.
// Whether the revision actually satisfies the critique is decided by
// re-evaluating it in the next round, never here.
func (e *Engine) Revise(ctx context.Context, draft string, critique trace.Critique, cited *law.Law) (string, error) {
	e.logger.Debug("revising draft",
		"draft_len", len(draft),
		"article_id", critique.ArticleID,
	)
	return e.capability.Generate(ctx, draft, critique, cited)
}
