// Package provider defines the external model capability consumed by the
// governance engine: structured evaluation of a draft against laws, and
// free-form regeneration of a draft under a critique.
//
// The engine never reasons about content itself; any conforming Capability
// implementation is substitutable, which is what makes deterministic test
// doubles possible.
package provider
