package govern

import (
	"fmt"
	"time"
)

// ExhaustedPolicy decides the terminal status when the revision budget runs
// out with a violation still standing.
type ExhaustedPolicy string

const (
	// ExhaustedBlock blocks the content. The last attempted draft is kept
	// on the trace for audit, but the status signals it was never
	// certified compliant.
	ExhaustedBlock ExhaustedPolicy = "block"

	// ExhaustedBestEffort releases the last attempted draft as a REVISED
	// trace flagged best-effort.
	ExhaustedBestEffort ExhaustedPolicy = "best_effort"
)

// Config contains configuration for the orchestration engine.
type Config struct {
	// MaxRetries bounds the evaluate/revise loop. A cycle evaluating a
	// still-violating draft on round n stops revising once n reaches
	// MaxRetries. Zero means a single evaluation round with no revision.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// OnExhausted is the policy applied when MaxRetries is reached with a
	// violation standing.
	// Default: block
	OnExhausted ExhaustedPolicy `yaml:"on_exhausted"`

	// CallTimeout bounds each individual capability call. Exceeding it
	// fails the cycle with a provider timeout; it never counts as a
	// revision. Zero leaves the capability's own timeout in charge.
	// Default: 0
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		OnExhausted: ExhaustedBlock,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	switch c.OnExhausted {
	case ExhaustedBlock, ExhaustedBestEffort:
	default:
		return fmt.Errorf("unknown on_exhausted policy %q", c.OnExhausted)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("call_timeout must not be negative, got %v", c.CallTimeout)
	}
	return nil
}
