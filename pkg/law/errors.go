package law

import "fmt"

// MalformedRuleError indicates a law record failed validation at load time.
// It is always surfaced during loading, never mid-cycle: a batch containing
// a malformed record is rejected wholesale and the previous snapshot stays
// active.
type MalformedRuleError struct {
	// ID is the identifier of the offending law, if one was present.
	ID string

	// Field is the name of the invalid or missing field.
	Field string

	// Reason describes why the field is invalid.
	Reason string
}

// Error returns the error message.
func (e *MalformedRuleError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("malformed law %q: field %q %s", e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed law: field %q %s", e.Field, e.Reason)
}

// DuplicateIDError indicates two laws in one batch share an identifier.
type DuplicateIDError struct {
	ID string
}

// Error returns the error message.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate law id %q in batch", e.ID)
}

// Unwrap classifies the duplicate as a malformed "id" field, so callers
// matching MalformedRuleError catch every load-time rejection.
func (e *DuplicateIDError) Unwrap() error {
	return &MalformedRuleError{ID: e.ID, Field: "id", Reason: "duplicated in batch"}
}
