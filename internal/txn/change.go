package txn

import (
	"sort"

	"github.com/corazon/textcore/internal/rope"
)

// Change is a single replacement range against some pre-image content:
// the scalars in [Start, End) are replaced by Replacement. A nil
// Replacement is treated the same as an empty string (pure deletion).
type Change struct {
	Start       rope.CharIdx
	End         rope.CharIdx
	Replacement *string
}

// replacement returns the substitution text, defaulting to "".
func (c Change) replacement() string {
	if c.Replacement == nil {
		return ""
	}
	return *c.Replacement
}

// FromChanges builds a Transaction from a list of Changes against content
// of length preLen scalars. Changes need not be pre-sorted or
// non-overlapping on input: overlapping or touching changes are merged
// into their union with replacement texts concatenated in start order
// (see coalesce); no change is rejected.
func FromChanges(preLen rope.CharIdx, changes []Change) Transaction {
	if len(changes) == 0 {
		return Transaction{Retain(int(preLen))}
	}

	merged := coalesce(changes)

	var tx Transaction
	var cursor rope.CharIdx
	for _, c := range merged {
		if c.Start > cursor {
			tx = append(tx, Retain(int(c.Start-cursor)))
		}
		if c.End > c.Start {
			tx = append(tx, Delete(int(c.End-c.Start)))
		}
		if rep := c.replacement(); rep != "" {
			tx = append(tx, Insert(rep))
		}
		cursor = c.End
	}
	if preLen > cursor {
		tx = append(tx, Retain(int(preLen-cursor)))
	}
	return tx
}

// coalesce sorts changes by Start ascending and merges any that overlap or
// touch into a single change spanning their union, concatenating
// replacement text in document order. This mirrors the changed_ranges
// coalescing sweep required for CommitResult.
func coalesce(changes []Change) []Change {
	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var out []Change
	for _, c := range sorted {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if c.Start <= last.End {
			if c.End > last.End {
				last.End = c.End
			}
			rep := last.replacement() + c.replacement()
			last.Replacement = &rep
			continue
		}
		out = append(out, c)
	}
	return out
}

// Range is a half-open [Start, End) CharIdx span, used for changed_ranges
// in CommitResult.
type Range struct {
	Start rope.CharIdx
	End   rope.CharIdx
}

// ChangedRanges derives the set of affected [start,end) ranges from a
// Transaction's operation list by walking it and merging adjacent or
// overlapping touched spans.
func ChangedRanges(t Transaction) []Range {
	var ranges []Range
	var pos rope.CharIdx

	flush := func(start, end rope.CharIdx) {
		if start >= end {
			return
		}
		if n := len(ranges); n > 0 && ranges[n-1].End >= start {
			if end > ranges[n-1].End {
				ranges[n-1].End = end
			}
			return
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}

	for _, op := range t {
		switch op.Kind {
		case OpRetain:
			pos += rope.CharIdx(op.N)
		case OpDelete:
			flush(pos, pos+rope.CharIdx(op.N))
			pos += rope.CharIdx(op.N)
		case OpInsert:
			n := rope.CharIdx(len([]rune(op.Text)))
			flush(pos, pos+n)
			pos += n
		}
	}
	return ranges
}
