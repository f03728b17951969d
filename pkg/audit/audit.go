package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meridian-hq/minos/pkg/trace"
)

// Record is the flattened, storage-ready form of one compliance trace.
type Record struct {
	// ID is the trace id.
	ID string `json:"id"`

	// Status is the terminal status of the cycle.
	Status string `json:"status"`

	// InputPrompt and InputDraft are the original inputs.
	InputPrompt string `json:"input_prompt"`
	InputDraft  string `json:"input_draft,omitempty"`

	// FinalOutput is the released or last-attempted draft, if any.
	FinalOutput string `json:"final_output,omitempty"`

	// RoundsUsed counts evaluation rounds executed.
	RoundsUsed int `json:"rounds_used"`

	// BlockedBy is the red-line law id for sentinel blocks.
	BlockedBy string `json:"blocked_by,omitempty"`

	// BestEffort marks an uncertified release.
	BestEffort bool `json:"best_effort,omitempty"`

	// LawVersion is the snapshot version the cycle ran against.
	LawVersion string `json:"law_version,omitempty"`

	// CritiquesJSON is the serialized critique sequence.
	CritiquesJSON string `json:"critiques_json,omitempty"`

	// Delta is the textual diff between input and final drafts.
	Delta string `json:"delta,omitempty"`

	// StartedAt and CompletedAt bound the cycle execution.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// RecordedAt is when the record was written to the archive.
	RecordedAt time.Time `json:"recorded_at"`
}

// NewRecord flattens a completed trace into a storage record.
func NewRecord(t *trace.ComplianceTrace) (*Record, error) {
	critiques, err := json.Marshal(t.Critiques)
	if err != nil {
		return nil, fmt.Errorf("marshal critiques: %w", err)
	}

	return &Record{
		ID:            t.ID,
		Status:        string(t.Status),
		InputPrompt:   t.InputPrompt,
		InputDraft:    t.InputDraft,
		FinalOutput:   t.FinalOutput,
		RoundsUsed:    t.RoundsUsed,
		BlockedBy:     t.BlockedBy,
		BestEffort:    t.BestEffort,
		LawVersion:    t.LawVersion,
		CritiquesJSON: string(critiques),
		Delta:         t.Delta,
		StartedAt:     t.StartedAt,
		CompletedAt:   t.CompletedAt,
		RecordedAt:    time.Now().UTC(),
	}, nil
}

// Query filters archive reads. Zero fields are ignored.
type Query struct {
	// Status filters by terminal status.
	Status string

	// From and To bound CompletedAt.
	From time.Time
	To   time.Time

	// Limit and Offset paginate results. Limit 0 means no limit.
	Limit  int
	Offset int
}

// Storage is the archive backend contract. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists one record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the query, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Prune deletes records completed before the cutoff and returns the
	// number deleted.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}

// StorageError wraps a backend failure with its backend and operation.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
