package store

import "meridian-hq/minos/pkg/law"

// DefaultVersion is the version of the built-in law bundle.
const DefaultVersion = "builtin-1"

// DefaultLaws returns the built-in law bundle used when no law path is
// configured. It covers the baseline safety rules: destructive-intent
// screening, evidence-based claims, and citation integrity.
func DefaultLaws() []law.Law {
	return []law.Law{
		{
			ID:       "SEC.1",
			Tier:     law.TierUniversal,
			Text:     "Requests expressing destructive intent against data stores must be refused.",
			Severity: law.SeverityCritical,
			Tags:     []string{"security"},
			Redline:  true,
			Pattern:  `(?i)\b(delete|drop|truncate|wipe)\b.*\b(database|table|records?)\b`,
		},
		{
			ID:       "SEC.2",
			Tier:     law.TierUniversal,
			Text:     "Credentials and secrets must never be requested from or echoed back to the user.",
			Severity: law.SeverityCritical,
			Tags:     []string{"security"},
			Redline:  true,
			Pattern:  `(?i)\b(password|api[ _-]?key|secret[ _-]?key)\b`,
		},
		{
			ID:       "GCP.4",
			Tier:     law.TierDomain,
			Text:     "Claims about dosage or treatment efficacy must be supported by trial evidence; speculation is not a permissible basis for clinical recommendations.",
			Severity: law.SeverityHigh,
			Tags:     []string{"GxP", "clinical"},
			Source:   "ICH E6(R2) GCP",
		},
		{
			ID:       "REF.1",
			Tier:     law.TierDomain,
			Text:     "All study citations must resolve to entries in the approved references list; unverifiable citations must be removed or flagged.",
			Severity: law.SeverityMedium,
			Tags:     []string{"GxP", "citations"},
		},
	}
}

// NewDefaultSource returns a memory source serving the built-in bundle.
func NewDefaultSource() *MemorySource {
	return NewMemorySource(DefaultVersion, DefaultLaws())
}
