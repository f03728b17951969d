// Package govern implements the compliance orchestration engine: the
// red-line pre-check, active rule selection, and the bounded evaluate/revise
// loop that produces an auditable ComplianceTrace.
//
// Each cycle is independent and stateless apart from the law snapshot it
// pins at start; any number of cycles may run concurrently. Red-line
// triggers and exhausted-retry blocks are normal terminal outcomes carried
// in the trace status; only provider and contract failures surface as
// errors, and an errored cycle never returns a partial trace.
package govern
