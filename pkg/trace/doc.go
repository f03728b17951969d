// Package trace defines the structured verdicts and audit records produced
// by a compliance cycle: the Critique returned by each evaluation round and
// the ComplianceTrace returned to the caller.
package trace
