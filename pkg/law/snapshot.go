package law

// Snapshot is an immutable, versioned collection of laws. It is created at
// load time, replaced wholesale on reload, and never partially mutated, so a
// reader holding a snapshot reference observes a consistent rule set for the
// duration of one invocation even if a reload happens concurrently.
type Snapshot struct {
	version string
	laws    []Law
	byID    map[string]int
}

// NewSnapshot builds a snapshot from a validated batch of laws.
// The original load order of the batch is preserved; iteration order of
// Laws() is stable across the snapshot's lifetime.
//
// Returns MalformedRuleError if any record is missing required fields, or
// DuplicateIDError if two records share an id.
func NewSnapshot(version string, laws []Law) (*Snapshot, error) {
	byID := make(map[string]int, len(laws))
	for i := range laws {
		if err := laws[i].Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[laws[i].ID]; exists {
			return nil, &DuplicateIDError{ID: laws[i].ID}
		}
		byID[laws[i].ID] = i
	}

	// Copy the slice so callers cannot mutate the published set.
	owned := make([]Law, len(laws))
	copy(owned, laws)

	return &Snapshot{
		version: version,
		laws:    owned,
		byID:    byID,
	}, nil
}

// Version returns the version identifier of this snapshot.
func (s *Snapshot) Version() string {
	return s.version
}

// Len returns the number of laws in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.laws)
}

// Laws returns a copy of all laws in their original load order.
func (s *Snapshot) Laws() []Law {
	out := make([]Law, len(s.laws))
	copy(out, s.laws)
	return out
}

// Get returns the law with the given id, if present.
func (s *Snapshot) Get(id string) (Law, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Law{}, false
	}
	return s.laws[i], true
}

// Select returns every UNIVERSAL law in the snapshot, unioned with every
// DOMAIN or TENANT law whose tags intersect contextTags. Tag matching is
// case-sensitive and exact. Consumers must not depend on the order of the
// returned set beyond it being the snapshot's load order.
func (s *Snapshot) Select(contextTags []string) []Law {
	var selected []Law
	for _, l := range s.laws {
		if l.Tier == TierUniversal {
			selected = append(selected, l)
			continue
		}
		for _, tag := range contextTags {
			if l.HasTag(tag) {
				selected = append(selected, l)
				break
			}
		}
	}
	return selected
}

// RedlineRules returns the subset of laws flagged for the pre-generation
// screening path, in load order. The subset is independent of context tags:
// red-line checks run on every request and are never bypassed by tag
// filtering.
func (s *Snapshot) RedlineRules() []Law {
	var rules []Law
	for _, l := range s.laws {
		if l.Redline {
			rules = append(rules, l)
		}
	}
	return rules
}
