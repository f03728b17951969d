package law

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Tier encodes the scope of a Law. Tier is metadata for selection and audit,
// not a priority ranking: all selected laws are evaluated together.
type Tier string

const (
	// TierUniversal laws apply to every request regardless of context.
	TierUniversal Tier = "UNIVERSAL"

	// TierDomain laws apply when their tags intersect the request context.
	TierDomain Tier = "DOMAIN"

	// TierTenant laws apply when their tags intersect the request context,
	// scoped to a single tenant's rule set.
	TierTenant Tier = "TENANT"
)

// Valid reports whether the tier is one of the known values.
func (t Tier) Valid() bool {
	switch t {
	case TierUniversal, TierDomain, TierTenant:
		return true
	}
	return false
}

// Severity is the ordered violation severity of a Law.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// severityNames maps severity values to their wire representation.
var severityNames = map[Severity]string{
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

// String returns the wire representation of the severity.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEVERITY(%d)", int(s))
}

// ParseSeverity parses a severity name. The empty string parses to
// SeverityMedium, matching the default applied at load time.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Severity) MarshalYAML() (interface{}, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return name, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(name))
}

// Law is a single governance rule. Laws are immutable once loaded: the store
// publishes them inside a Snapshot and never mutates them in place.
type Law struct {
	// ID is the unique, stable identifier of the law (e.g. "GCP.4").
	// IDs are never reused once issued.
	ID string `yaml:"id" json:"id"`

	// Tier is the scope of the law (UNIVERSAL, DOMAIN, TENANT).
	Tier Tier `yaml:"tier" json:"tier"`

	// Text is the natural-language statement of the rule. It is opaque to
	// the engine and passed to the evaluator and reviser verbatim.
	Text string `yaml:"text" json:"text"`

	// Severity is the violation severity, LOW through CRITICAL.
	// Defaults to MEDIUM when absent in the source record.
	Severity Severity `yaml:"severity" json:"severity"`

	// Tags classify the law for context-based selection. Matching is
	// case-sensitive and exact.
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Redline marks the law as eligible for the pre-generation prompt
	// screening path in addition to post-draft evaluation.
	Redline bool `yaml:"redline,omitempty" json:"redline,omitempty"`

	// Pattern is the screening pattern (regular expression) used by the
	// sentinel when Redline is true. Ignored otherwise.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Source is an optional reference to the origin of the rule
	// (e.g. "FDA 21 CFR Part 11").
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Validate checks that the law carries all required fields.
func (l *Law) Validate() error {
	if l.ID == "" {
		return &MalformedRuleError{Field: "id", Reason: "must not be empty"}
	}
	if l.Text == "" {
		return &MalformedRuleError{ID: l.ID, Field: "text", Reason: "must not be empty"}
	}
	if !l.Tier.Valid() {
		return &MalformedRuleError{ID: l.ID, Field: "tier", Reason: fmt.Sprintf("unknown tier %q", l.Tier)}
	}
	if _, ok := severityNames[l.Severity]; !ok {
		return &MalformedRuleError{ID: l.ID, Field: "severity", Reason: fmt.Sprintf("unknown severity %d", int(l.Severity))}
	}
	if l.Redline && l.Pattern == "" {
		return &MalformedRuleError{ID: l.ID, Field: "pattern", Reason: "red-line law requires a pattern"}
	}
	if l.Pattern != "" {
		if _, err := regexp.Compile(l.Pattern); err != nil {
			return &MalformedRuleError{ID: l.ID, Field: "pattern", Reason: err.Error()}
		}
	}
	return nil
}

// HasTag reports whether the law carries the given tag (exact match).
func (l *Law) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
