package sentinel

import (
	"log/slog"
	"regexp"
	"sync"

	"meridian-hq/minos/pkg/law"
)

// Result is the outcome of one red-line check. When Triggered is false the
// prompt is clear and the remaining fields are zero.
type Result struct {
	// Triggered reports whether any red-line pattern matched.
	Triggered bool

	// Law is the first matching red-line law, in rule iteration order.
	Law law.Law

	// EvidenceSpan is the prompt fragment the pattern matched.
	EvidenceSpan string
}

// Sentinel screens prompts against red-line law patterns. Compiled patterns
// are cached across calls; the cache key includes the pattern text so a
// reloaded law with a changed pattern recompiles.
type Sentinel struct {
	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp
	logger   *slog.Logger
}

// New creates a sentinel.
func New(logger *slog.Logger) *Sentinel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sentinel{
		compiled: make(map[string]*regexp.Regexp),
		logger:   logger.With("component", "sentinel"),
	}
}

// Check matches the prompt against each red-line rule in order and reports
// the first match. Rules must be passed in their snapshot's load order so
// results are stable and deterministic; multiple matches are never
// aggregated. A rule with an invalid pattern is skipped and logged, never
// fatal at check time.
func (s *Sentinel) Check(prompt string, rules []law.Law) Result {
	if prompt == "" {
		return Result{}
	}

	for _, rule := range rules {
		re := s.pattern(rule)
		if re == nil {
			continue
		}
		if loc := re.FindStringIndex(prompt); loc != nil {
			s.logger.Warn("red line triggered",
				"law_id", rule.ID,
				"severity", rule.Severity.String(),
			)
			return Result{
				Triggered:    true,
				Law:          rule,
				EvidenceSpan: prompt[loc[0]:loc[1]],
			}
		}
	}
	return Result{}
}

// pattern returns the compiled pattern for a rule, compiling and caching on
// first use. Returns nil for rules without a pattern or with one that does
// not compile.
func (s *Sentinel) pattern(rule law.Law) *regexp.Regexp {
	if rule.Pattern == "" {
		return nil
	}
	key := rule.ID + "\x00" + rule.Pattern

	s.mu.RLock()
	re, ok := s.compiled[key]
	s.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		s.logger.Error("invalid red-line pattern, rule skipped",
			"law_id", rule.ID,
			"error", err,
		)
		re = nil
	}

	s.mu.Lock()
	s.compiled[key] = re
	s.mu.Unlock()
	return re
}
