package selection

import (
	"sort"

	"github.com/corazon/textcore/internal/rope"
)

// Set is an ordered, non-overlapping collection of Selections with one
// member designated primary. It always contains at least one selection.
type Set struct {
	ranges  []Selection
	primary int
}

// NewSet creates a set with a single selection, designated primary.
func NewSet(initial Selection) *Set {
	return &Set{ranges: []Selection{initial}}
}

// NewSetAt creates a set with a single cursor at the given position.
func NewSetAt(at rope.CharIdx) *Set {
	return NewSet(NewCursorSelection(at))
}

// NewSetFromSlice builds a Set from sels, normalizing (sorting and
// merging overlapping/adjacent members) on construction. The primary
// index is clamped into range after normalization collapses entries.
func NewSetFromSlice(sels []Selection, primary int) *Set {
	if len(sels) == 0 {
		return NewSetAt(0)
	}
	s := &Set{ranges: append([]Selection(nil), sels...), primary: primary}
	s.normalize()
	return s
}

// Primary returns the designated primary selection.
func (s *Set) Primary() Selection {
	if len(s.ranges) == 0 {
		return Selection{}
	}
	return s.ranges[s.primary]
}

// PrimaryIndex returns the index of the primary selection within Ranges().
func (s *Set) PrimaryIndex() int { return s.primary }

// Ranges returns a copy of all selections, safe to mutate independently.
func (s *Set) Ranges() []Selection {
	out := make([]Selection, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Count returns the number of selections in the set.
func (s *Set) Count() int { return len(s.ranges) }

// IsMulti reports whether the set holds more than one selection.
func (s *Set) IsMulti() bool { return len(s.ranges) > 1 }

// SetPrimary replaces the primary selection in place.
func (s *Set) SetPrimary(sel Selection) {
	if len(s.ranges) == 0 {
		s.ranges = []Selection{sel}
		s.primary = 0
		return
	}
	s.ranges[s.primary] = sel
	s.normalize()
}

// Add appends sel and renormalizes, merging it with any overlapping or
// adjacent members.
func (s *Set) Add(sel Selection) {
	s.ranges = append(s.ranges, sel)
	s.normalize()
}

// SetAll replaces every selection in the set, designating primary as the
// index (into sels, pre-normalization) of the new primary selection.
func (s *Set) SetAll(sels []Selection, primary int) {
	if len(sels) == 0 {
		s.ranges = []Selection{NewCursorSelection(0)}
		s.primary = 0
		return
	}
	s.ranges = append([]Selection(nil), sels...)
	s.primary = primary
	s.normalize()
}

// CollapseAll collapses every selection to a cursor at its head.
func (s *Set) CollapseAll() {
	for i, sel := range s.ranges {
		s.ranges[i] = sel.Collapse()
	}
	s.normalize()
}

// Clamp clamps every selection to [0, maxIdx].
func (s *Set) Clamp(maxIdx rope.CharIdx) {
	for i, sel := range s.ranges {
		s.ranges[i] = sel.Clamp(maxIdx)
	}
	s.normalize()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{ranges: make([]Selection, len(s.ranges)), primary: s.primary}
	copy(c.ranges, s.ranges)
	return c
}

// HasSelection reports whether any member has non-zero extent.
func (s *Set) HasSelection() bool {
	for _, sel := range s.ranges {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// normalize sorts members by start position and merges overlapping or
// touching ones, keeping the primary selection's identity by tracking the
// pointer it was merged into.
func (s *Set) normalize() {
	if len(s.ranges) <= 1 {
		if len(s.ranges) == 1 {
			s.primary = 0
		}
		return
	}

	type tagged struct {
		sel     Selection
		primary bool
	}
	tmp := make([]tagged, len(s.ranges))
	for i, sel := range s.ranges {
		tmp[i] = tagged{sel: sel, primary: i == s.primary}
	}

	sort.Slice(tmp, func(i, j int) bool {
		si, sj := tmp[i].sel.Start(), tmp[j].sel.Start()
		if si != sj {
			return si < sj
		}
		return tmp[i].sel.End() > tmp[j].sel.End()
	})

	merged := tmp[:1]
	for _, t := range tmp[1:] {
		last := &merged[len(merged)-1]
		if t.sel.Start() <= last.sel.End() {
			last.sel = last.sel.Merge(t.sel)
			last.primary = last.primary || t.primary
		} else {
			merged = append(merged, t)
		}
	}

	s.ranges = s.ranges[:0]
	primaryIdx := 0
	for i, t := range merged {
		s.ranges = append(s.ranges, t.sel)
		if t.primary {
			primaryIdx = i
		}
	}
	s.primary = primaryIdx
}

// Equals reports whether two sets hold the same selections in the same
// order with the same primary designation.
func (s *Set) Equals(other *Set) bool {
	if other == nil || s.primary != other.primary || len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, sel := range s.ranges {
		if !sel.Equals(other.ranges[i]) {
			return false
		}
	}
	return true
}
