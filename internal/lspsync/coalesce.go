package lspsync

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Coalesce merges adjacent or overlapping incremental changes into the
// smallest equivalent list, preserving the server's view of the edit
// sequence. Changes are coalesced by Position only (line/char), which is
// exact for ASCII and safe for any text as long as every Position in the
// input already falls on a scalar boundary — this module's Position is
// defined in terms of Unicode scalars (see types.go), never raw UTF-16
// code units or byte offsets, so no grapheme-cluster segmentation (e.g.
// github.com/rivo/uniseg) is needed at this layer: the LSP surface
// consumed here does its own UTF-16 re-encoding in the transport. Merged
// ranges only reuse Start/End positions already present in the input; the
// sweep does not check whether a position falls inside a grapheme cluster
// (see SplitsGraphemeCluster for that check).
//
// This module does not claim the merge
// is position-preserving under every possible ordering of overlapping
// edits against a server that has not yet applied an earlier change in
// the batch: changes are coalesced assuming they describe a single
// coherent edit to one pre-image (the editor's own content just before
// the batch began), which holds for every caller in this module (all
// pending changes in one DocSyncState share that pre-image) but would
// not generalize to merging two independently-sequenced change streams.
func Coalesce(changes []LspDocumentChange) []LspDocumentChange {
	if len(changes) <= 1 {
		return changes
	}

	sorted := make([]LspDocumentChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i].Range.Start, sorted[j].Range.Start)
	})

	out := make([]LspDocumentChange, 0, len(sorted))
	for _, c := range sorted {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if !after(c.Range.Start, last.Range.End) {
			if after(c.Range.End, last.Range.End) {
				last.Range.End = c.Range.End
			}
			last.NewText += c.NewText
			continue
		}
		out = append(out, c)
	}
	return out
}

func less(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Char < b.Char
}

func after(a, b Position) bool {
	return less(b, a)
}

// SplitsGraphemeCluster reports whether concatenating a and b at their
// boundary would land inside a single user-perceived character (e.g. a
// base rune plus a combining mark, or a multi-rune emoji ZWJ sequence).
// The coalescing sweep above never needs to call this for changes that
// already share an exact boundary, but a client replaying incremental
// changes against a server-side buffer built from a different
// normalization can produce adjacent fragments that are scalar-safe but
// not grapheme-safe; callers that synthesize NewText from independently
// sourced fragments (rather than a single contiguous slice of editor
// content) should check this before sending.
func SplitsGraphemeCluster(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	combined := a + b
	boundary := len(a)
	rest := combined
	state := -1
	pos := 0
	for rest != "" {
		cluster, next, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		state = newState
		clusterEnd := pos + len(cluster)
		if pos < boundary && boundary < clusterEnd {
			return true
		}
		pos = clusterEnd
		rest = next
	}
	return false
}
