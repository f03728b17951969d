// Package judge wraps the external evaluation capability with the engine's
// own responsibilities: deterministic presentation of the active laws,
// validation of the returned verdict against the active rule set, and
// unmodified pass-through of the verdict's content.
package judge
