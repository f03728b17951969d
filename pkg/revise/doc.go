// Package revise wraps the external generation capability as a pure
// content rewriter. The reviser never validates its own output; the judge
// is the sole arbiter of compliance, which prevents the reviser from
// declaring its own success.
package revise
