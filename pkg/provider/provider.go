package provider

import (
	"context"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/trace"
)

// Capability is the abstract model interface the engine invokes. Both
// methods block for the duration of one model call; callers bound them with
// a context deadline, and implementations must return promptly once the
// context is cancelled.
type Capability interface {
	// Evaluate judges a draft against the given laws and returns a
	// structured critique. The laws are presented in the order given;
	// callers are responsible for a deterministic ordering.
	//
	// The returned critique is passed through unvalidated; consistency
	// checks against the active rule set are the judge's responsibility.
	Evaluate(ctx context.Context, draft string, laws []law.Law) (*trace.Critique, error)

	// Generate produces a replacement draft for content that drew the
	// given critique. cited is the violated law when it is known, nil
	// otherwise. Generate is a pure rewriter: it never judges its own
	// output.
	Generate(ctx context.Context, draft string, critique trace.Critique, cited *law.Law) (string, error)
}
