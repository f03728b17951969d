// Package sentinel implements the red-line pre-filter: a fast, deterministic
// pattern check that runs on every input prompt before any generation cost
// is incurred.
//
// The sentinel is intentionally not a learned classifier. It matches a
// fixed, auditable pattern per red-line law; determinism and speed matter
// more than recall on this path.
package sentinel
