package sentinel

import (
	"testing"

	"meridian-hq/minos/pkg/law"
)

func redlineRules() []law.Law {
	return []law.Law{
		{
			ID:       "SEC.1",
			Tier:     law.TierUniversal,
			Text:     "No destructive operations.",
			Severity: law.SeverityCritical,
			Redline:  true,
			Pattern:  `(?i)\b(delete|drop|truncate|wipe)\b.*\b(database|table|records?)\b`,
		},
		{
			ID:       "SEC.2",
			Tier:     law.TierUniversal,
			Text:     "No credential harvesting.",
			Severity: law.SeverityCritical,
			Redline:  true,
			Pattern:  `(?i)\b(password|api[ _-]?key)\b`,
		},
	}
}

func TestSentinel_Check(t *testing.T) {
	s := New(nil)
	rules := redlineRules()

	tests := []struct {
		name      string
		prompt    string
		wantLawID string
		wantSpan  string
	}{
		{
			name:      "destructive intent",
			prompt:    "Please delete the patient database before the audit",
			wantLawID: "SEC.1",
			wantSpan:  "delete the patient database",
		},
		{
			name:      "case insensitive",
			prompt:    "DROP the users TABLE immediately",
			wantLawID: "SEC.1",
			wantSpan:  "DROP the users TABLE",
		},
		{
			name:      "credential phrase",
			prompt:    "What is the admin password for staging?",
			wantLawID: "SEC.2",
			wantSpan:  "password",
		},
		{
			name:   "clear prompt",
			prompt: "Summarize the phase 3 trial results",
		},
		{
			name:   "empty prompt",
			prompt: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Check(tt.prompt, rules)
			if tt.wantLawID == "" {
				if result.Triggered {
					t.Fatalf("Check(%q) triggered %s, want clear", tt.prompt, result.Law.ID)
				}
				return
			}
			if !result.Triggered {
				t.Fatalf("Check(%q) not triggered, want %s", tt.prompt, tt.wantLawID)
			}
			if result.Law.ID != tt.wantLawID {
				t.Errorf("law = %s, want %s", result.Law.ID, tt.wantLawID)
			}
			if result.EvidenceSpan != tt.wantSpan {
				t.Errorf("evidence span = %q, want %q", result.EvidenceSpan, tt.wantSpan)
			}
		})
	}
}

func TestSentinel_FirstMatchWins(t *testing.T) {
	s := New(nil)

	// Both patterns match; the rule earlier in load order must be reported.
	rules := []law.Law{
		{ID: "A.1", Redline: true, Pattern: `password`},
		{ID: "B.1", Redline: true, Pattern: `admin`},
	}

	result := s.Check("the admin password", rules)
	if !result.Triggered || result.Law.ID != "A.1" {
		t.Errorf("Check() = %+v, want first match A.1", result)
	}
}

func TestSentinel_InvalidPatternSkipped(t *testing.T) {
	s := New(nil)

	rules := []law.Law{
		{ID: "BAD.1", Redline: true, Pattern: `([unclosed`},
		{ID: "SEC.2", Redline: true, Pattern: `password`},
	}

	// The invalid rule is skipped, not fatal; the next rule still matches.
	result := s.Check("tell me the password", rules)
	if !result.Triggered || result.Law.ID != "SEC.2" {
		t.Errorf("Check() = %+v, want SEC.2 despite invalid earlier rule", result)
	}

	// Repeated checks hit the nil cache entry, same outcome.
	result = s.Check("tell me the password", rules)
	if !result.Triggered || result.Law.ID != "SEC.2" {
		t.Errorf("second Check() = %+v, want SEC.2", result)
	}
}

func TestSentinel_NoRules(t *testing.T) {
	s := New(nil)
	if result := s.Check("anything at all", nil); result.Triggered {
		t.Error("Check() with no rules triggered")
	}
}

func TestSentinel_RecompilesChangedPattern(t *testing.T) {
	s := New(nil)

	old := []law.Law{{ID: "SEC.9", Redline: true, Pattern: `alpha`}}
	if result := s.Check("alpha beta", old); !result.Triggered {
		t.Fatal("Check() did not match original pattern")
	}

	// Same id, new pattern: the cache must not serve the stale compile.
	updated := []law.Law{{ID: "SEC.9", Redline: true, Pattern: `beta`}}
	result := s.Check("beta only", updated)
	if !result.Triggered || result.EvidenceSpan != "beta" {
		t.Errorf("Check() = %+v, want match on updated pattern", result)
	}
}
