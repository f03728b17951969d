package trace

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ComputeDelta computes a textual patch between the original draft and the
// revised output. Returns the empty string when the texts are identical, so
// the trace carries a delta only when content actually changed.
func ComputeDelta(original, revised string) string {
	if original == revised {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, revised, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(original, diffs)
	return dmp.PatchToText(patches)
}
