package store

import (
	"context"

	"meridian-hq/minos/pkg/law"
)

// MemorySource serves a fixed law batch from memory. It is used by tests and
// by the embedded default bundle.
type MemorySource struct {
	version string
	laws    []law.Law
}

// NewMemorySource creates a memory-backed law source.
func NewMemorySource(version string, laws []law.Law) *MemorySource {
	return &MemorySource{version: version, laws: laws}
}

// LoadLaws returns the fixed batch.
func (s *MemorySource) LoadLaws(ctx context.Context) (string, []law.Law, error) {
	out := make([]law.Law, len(s.laws))
	copy(out, s.laws)
	return s.version, out, nil
}
