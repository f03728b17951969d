package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"meridian-hq/minos/pkg/law"
)

// Source yields raw law batches for the store. The format of the underlying
// data is opaque to the engine; sources return already-parsed records.
type Source interface {
	// LoadLaws loads the full law batch from the source, together with a
	// version identifier for the batch.
	LoadLaws(ctx context.Context) (version string, laws []law.Law, err error)
}

// Store holds the active law snapshot and replaces it atomically on reload.
type Store struct {
	source  Source
	current atomic.Pointer[law.Snapshot]
	logger  *slog.Logger
}

// New creates a store backed by the given source and performs the initial
// load. The store starts with a fully built snapshot or not at all.
func New(ctx context.Context, source Source, logger *slog.Logger) (*Store, error) {
	if source == nil {
		return nil, fmt.Errorf("law source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		source: source,
		logger: logger.With("component", "law.store"),
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ActiveSnapshot returns the currently published snapshot. It never blocks
// and never returns a partially built snapshot.
func (s *Store) ActiveSnapshot() *law.Snapshot {
	return s.current.Load()
}

// Reload loads a fresh batch from the source, validates it, and publishes it
// as the new active snapshot. The swap is all-or-nothing: on any error the
// previous snapshot remains active.
func (s *Store) Reload(ctx context.Context) error {
	version, laws, err := s.source.LoadLaws(ctx)
	if err != nil {
		return fmt.Errorf("load laws: %w", err)
	}

	snapshot, err := law.NewSnapshot(version, laws)
	if err != nil {
		return err
	}

	s.current.Store(snapshot)
	s.logger.Info("law snapshot published",
		"version", snapshot.Version(),
		"law_count", snapshot.Len(),
		"redline_count", len(snapshot.RedlineRules()),
	)
	return nil
}
