package govern

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"meridian-hq/minos/pkg/judge"
	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/law/store"
	"meridian-hq/minos/pkg/provider"
	"meridian-hq/minos/pkg/revise"
	"meridian-hq/minos/pkg/sentinel"
	"meridian-hq/minos/pkg/telemetry/metrics"
	"meridian-hq/minos/pkg/trace"
)

// ErrMissingPrompt indicates the request carried no input prompt.
var ErrMissingPrompt = errors.New("input prompt is required")

// Request is one compliance cycle invocation. Prompt is always required.
// Draft is optional: without it the cycle is a prompt-only check that
// terminates after the red-line stage.
type Request struct {
	// Prompt is the caller's original request to the generating agent.
	Prompt string `json:"input_prompt"`

	// Draft is the agent's proposed output, if one exists yet.
	Draft string `json:"input_draft,omitempty"`

	// ContextTags select DOMAIN and TENANT laws for this cycle.
	ContextTags []string `json:"context_tags,omitempty"`

	// MaxRetries overrides the engine's revision budget for this cycle
	// when non-nil.
	MaxRetries *int `json:"max_retries,omitempty"`
}

// Engine drives the full compliance cycle.
type Engine struct {
	store    *store.Store
	sentinel *sentinel.Sentinel
	judge    *judge.Judge
	reviser  *revise.Engine
	config   Config
	metrics  *metrics.GovernanceMetrics
	logger   *slog.Logger
}

// New creates an orchestration engine. metrics may be nil.
func New(st *store.Store, sn *sentinel.Sentinel, jd *judge.Judge, rv *revise.Engine, cfg Config, m *metrics.GovernanceMetrics, logger *slog.Logger) (*Engine, error) {
	if st == nil || sn == nil || jd == nil || rv == nil {
		return nil, fmt.Errorf("store, sentinel, judge, and reviser are all required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    st,
		sentinel: sn,
		judge:    jd,
		reviser:  rv,
		config:   cfg,
		metrics:  m,
		logger:   logger.With("component", "govern"),
	}, nil
}

// RunComplianceCycle executes one full cycle and returns its trace. Callers
// receive either a complete trace or a single error, never both and never a
// partial trace. Rounds are strictly sequential; the law snapshot is
// acquired once at the start and used for the whole cycle, so a concurrent
// reload is never observed mid-run.
func (e *Engine) RunComplianceCycle(ctx context.Context, req Request) (*trace.ComplianceTrace, error) {
	if req.Prompt == "" {
		return nil, ErrMissingPrompt
	}

	snapshot := e.store.ActiveSnapshot()
	e.metrics.SetSnapshotSize(snapshot.Len())

	t := &trace.ComplianceTrace{
		ID:          uuid.NewString(),
		InputPrompt: req.Prompt,
		InputDraft:  req.Draft,
		LawVersion:  snapshot.Version(),
		StartedAt:   time.Now().UTC(),
	}

	// Red-line stage: runs on every request, before any generation cost.
	if result := e.sentinel.Check(req.Prompt, snapshot.RedlineRules()); result.Triggered {
		t.Status = trace.StatusBlocked
		t.BlockedBy = result.Law.ID
		t.EvidenceSpan = result.EvidenceSpan
		return e.finish(t), nil
	}

	// Prompt-only mode: nothing to judge once the prompt is clear.
	if req.Draft == "" {
		t.Status = trace.StatusApproved
		return e.finish(t), nil
	}

	maxRetries := e.config.MaxRetries
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	}
	if maxRetries < 0 {
		return nil, fmt.Errorf("max_retries must not be negative, got %d", maxRetries)
	}

	activeLaws := snapshot.Select(req.ContextTags)
	current := req.Draft

	for round := 1; ; round++ {
		critique, err := e.evaluate(ctx, current, activeLaws)
		if err != nil {
			return nil, err
		}
		t.Critiques = append(t.Critiques, *critique)
		t.RoundsUsed = round

		if !critique.Violation {
			t.FinalOutput = current
			if current != req.Draft {
				t.Status = trace.StatusRevised
			} else {
				t.Status = trace.StatusApproved
			}
			return e.finish(t), nil
		}

		if round >= maxRetries {
			// Budget exhausted with a violation standing. The last
			// attempted draft stays on the trace for audit either way.
			t.FinalOutput = current
			if e.config.OnExhausted == ExhaustedBestEffort {
				t.Status = trace.StatusRevised
				t.BestEffort = true
			} else {
				t.Status = trace.StatusBlocked
			}
			e.logger.Warn("revision budget exhausted",
				"trace_id", t.ID,
				"rounds", round,
				"article_id", critique.ArticleID,
				"policy", string(e.config.OnExhausted),
			)
			return e.finish(t), nil
		}

		e.logger.Info("violation detected, revising",
			"trace_id", t.ID,
			"round", round,
			"article_id", critique.ArticleID,
			"severity", critique.Severity.String(),
		)

		var cited *law.Law
		if l, ok := snapshot.Get(critique.ArticleID); ok {
			cited = &l
		}
		current, err = e.reviseDraft(ctx, current, *critique, cited)
		if err != nil {
			return nil, err
		}
	}
}

// evaluate runs one judge round under the per-call timeout.
func (e *Engine) evaluate(ctx context.Context, draft string, activeLaws []law.Law) (*trace.Critique, error) {
	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	start := time.Now()
	critique, err := e.judge.Evaluate(callCtx, draft, activeLaws)
	e.metrics.ObserveProviderCall("evaluate", time.Since(start), err)
	if err != nil {
		return nil, e.mapCallError("evaluate", callCtx, err)
	}
	return critique, nil
}

// reviseDraft runs one reviser call under the per-call timeout.
func (e *Engine) reviseDraft(ctx context.Context, draft string, critique trace.Critique, cited *law.Law) (string, error) {
	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	start := time.Now()
	revised, err := e.reviser.Revise(callCtx, draft, critique, cited)
	e.metrics.ObserveProviderCall("generate", time.Since(start), err)
	if err != nil {
		return "", e.mapCallError("generate", callCtx, err)
	}
	return revised, nil
}

// callContext derives the per-call context from the cycle context.
func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.CallTimeout > 0 {
		return context.WithTimeout(ctx, e.config.CallTimeout)
	}
	return context.WithCancel(ctx)
}

// mapCallError normalizes a deadline hit into a provider timeout so callers
// see one well-typed error regardless of which capability implementation
// noticed the deadline first.
func (e *Engine) mapCallError(operation string, callCtx context.Context, err error) error {
	var timeoutErr *provider.TimeoutError
	if errors.As(err, &timeoutErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &provider.TimeoutError{
			Operation: operation,
			Timeout:   e.config.CallTimeout,
		}
	}
	return err
}

// finish stamps terminal bookkeeping on the trace: completion time, delta,
// and metrics. The trace is complete and immutable once returned.
func (e *Engine) finish(t *trace.ComplianceTrace) *trace.ComplianceTrace {
	t.CompletedAt = time.Now().UTC()
	if t.InputDraft != "" && t.FinalOutput != "" {
		t.Delta = trace.ComputeDelta(t.InputDraft, t.FinalOutput)
	}

	if t.Status == trace.StatusBlocked && t.BlockedBy != "" {
		e.metrics.ObserveSentinelBlock(t.BlockedBy)
	}
	e.metrics.ObserveCycle(t.Status, t.RoundsUsed, t.CompletedAt.Sub(t.StartedAt))

	e.logger.Info("compliance cycle completed",
		"trace_id", t.ID,
		"status", string(t.Status),
		"rounds_used", t.RoundsUsed,
		"law_version", t.LawVersion,
	)
	return t
}
