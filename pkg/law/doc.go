// Package law defines the core governance rule model: individual Laws and
// the immutable, versioned Snapshot collections they are published in.
//
// A Law is a single natural-language governance rule with a tier (scope),
// a severity, classification tags, and an optional red-line flag marking it
// eligible for pre-generation prompt screening. Laws are immutable once
// loaded; a rule set is only ever updated by replacing the whole Snapshot.
package law
