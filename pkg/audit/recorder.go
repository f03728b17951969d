package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"meridian-hq/minos/pkg/trace"
)

// RecorderConfig contains configuration for the async recorder.
type RecorderConfig struct {
	// Buffer is the size of the async write channel. When the buffer is
	// full the record is dropped rather than blocking the cycle.
	// Default: 1000
	Buffer int

	// WriteTimeout bounds one storage write.
	// Default: 5s
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Buffer:       1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder archives completed traces asynchronously so storage latency
// never extends a compliance cycle.
type Recorder struct {
	storage Storage
	config  *RecorderConfig
	records chan *Record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewRecorder creates a recorder and starts its background worker.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		records: make(chan *Record, config.Buffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

// Record enqueues a completed trace for archiving. It returns immediately;
// when the buffer is full the trace is dropped and counted in the logs.
func (r *Recorder) Record(t *trace.ComplianceTrace) {
	record, err := NewRecord(t)
	if err != nil {
		r.logger.Error("failed to flatten trace for archive", "trace_id", t.ID, "error", err)
		return
	}

	select {
	case r.records <- record:
	default:
		r.logger.Warn("audit buffer full, trace dropped", "trace_id", t.ID)
	}
}

// worker drains the record channel into storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.write(record)
		case <-r.done:
			// Drain what is left before exiting.
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

// write performs one bounded storage write.
func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to archive trace", "trace_id", record.ID, "error", err)
	}
}

// Close stops the worker after draining pending records.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}
