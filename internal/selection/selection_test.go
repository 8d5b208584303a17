package selection

import "testing"

func TestSelectionRangeDirection(t *testing.T) {
	s := NewSelection(10, 4)
	if s.Start() != 4 || s.End() != 10 {
		t.Fatalf("got start=%d end=%d", s.Start(), s.End())
	}
	if !s.IsBackward() {
		t.Fatal("expected backward selection")
	}
}

func TestSelectionMerge(t *testing.T) {
	a := NewSelection(2, 5)
	b := NewSelection(5, 9)
	m := a.Merge(b)
	if m.Start() != 2 || m.End() != 9 {
		t.Fatalf("got %v", m)
	}
}

func TestSelectionClamp(t *testing.T) {
	s := NewSelection(3, 20)
	c := s.Clamp(10)
	if c.Head != 10 {
		t.Fatalf("got %v", c)
	}
}

func TestSetNormalizeMergesOverlapping(t *testing.T) {
	s := NewSetFromSlice([]Selection{
		NewSelection(10, 15),
		NewSelection(0, 3),
		NewSelection(3, 8),
	}, 1)
	if s.Count() != 2 {
		t.Fatalf("expected 2 merged ranges, got %d: %+v", s.Count(), s.Ranges())
	}
	r := s.Ranges()
	if r[0].Start() != 0 || r[0].End() != 8 {
		t.Fatalf("unexpected first range: %v", r[0])
	}
}

func TestSetPrimaryTracksThroughMerge(t *testing.T) {
	s := NewSetFromSlice([]Selection{
		NewSelection(0, 3),
		NewSelection(3, 8),
	}, 1)
	// index 1 (the [3,8) selection) should remain identified as primary
	// after merging into [0,8).
	p := s.Primary()
	if p.Start() != 0 || p.End() != 8 {
		t.Fatalf("unexpected primary after merge: %v", p)
	}
}

func TestSetAddAlwaysHasAtLeastOne(t *testing.T) {
	s := NewSetAt(5)
	if s.Count() != 1 {
		t.Fatalf("expected 1, got %d", s.Count())
	}
}
