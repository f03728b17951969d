// Package store owns the currently published law snapshot and the machinery
// for loading and hot-reloading law bundles.
//
// The store holds exactly one active snapshot at a time. Reloads build a
// complete replacement snapshot and publish it atomically; a failed reload
// leaves the previous snapshot active. Callers acquire the snapshot once per
// invocation and query against that reference, never against the store
// directly, so an in-flight compliance cycle never observes a reload.
package store
