// Package audit archives completed compliance traces for later review.
//
// Archiving is strictly off the cycle's critical path: the recorder accepts
// a finished trace, converts it to a flat record, and hands it to a
// background worker for storage. Backends are pluggable; memory and SQLite
// implementations are provided.
package audit
