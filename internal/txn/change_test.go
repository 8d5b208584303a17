package txn

import (
	"testing"

	"github.com/corazon/textcore/internal/rope"
)

func TestFromChangesSingle(t *testing.T) {
	r := rope.FromString("hello world")
	rep := "there"
	tx := FromChanges(r.LenChars(), []Change{{Start: 6, End: 11, Replacement: &rep}})
	got := tx.Apply(r)
	if got.String() != "hello there" {
		t.Fatalf("got %q", got.String())
	}
}

func TestFromChangesMultipleNonOverlapping(t *testing.T) {
	r := rope.FromString("abcdefghij")
	rA, rB := "X", "Y"
	tx := FromChanges(r.LenChars(), []Change{
		{Start: 8, End: 9, Replacement: &rB}, // out of order on purpose
		{Start: 1, End: 2, Replacement: &rA},
	})
	got := tx.Apply(r)
	if got.String() != "aXcdefghYj" {
		t.Fatalf("got %q", got.String())
	}
}

func TestFromChangesOverlappingCoalesces(t *testing.T) {
	r := rope.FromString("abcdefgh")
	r1, r2 := "12", "34"
	tx := FromChanges(r.LenChars(), []Change{
		{Start: 1, End: 4, Replacement: &r1},
		{Start: 3, End: 6, Replacement: &r2},
	})
	if err := tx.Validate(int(r.LenChars())); err != nil {
		t.Fatalf("invalid tx: %v", err)
	}
	// Ranges [1,4) and [3,6) overlap -> merged into [1,6) with concatenated
	// replacement "1234".
	got := tx.Apply(r)
	if got.String() != "a1234gh" {
		t.Fatalf("got %q", got.String())
	}
}

func TestChangedRangesCoalescesAdjacent(t *testing.T) {
	tx := Transaction{Retain(2), Delete(3), Retain(0), Insert("xy"), Retain(4)}
	ranges := ChangedRanges(tx)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 coalesced range, got %d: %+v", len(ranges), ranges)
	}
	if ranges[0].Start != 2 || ranges[0].End != 7 {
		t.Fatalf("unexpected range: %+v", ranges[0])
	}
}

func TestChangedRangesSeparated(t *testing.T) {
	tx := Transaction{Delete(2), Retain(5), Insert("z"), Retain(3)}
	ranges := ChangedRanges(tx)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d: %+v", len(ranges), ranges)
	}
}
