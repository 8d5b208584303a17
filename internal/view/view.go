package view

import (
	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/rope"
	"github.com/corazon/textcore/internal/selection"
)

// View is per-view state over a shared Document: one primary cursor
// (the head of the selection set's primary range), an ordered set of
// selection ranges, a viewport scroll anchor, and modal editing state.
type View struct {
	id    Id
	docID document.Id

	selections *selection.Set

	scrollLine    uint32
	scrollSegment uint32

	mode  Mode
	input InputState
}

// New creates a View over docID with a single cursor at position 0.
func New(id Id, docID document.Id) *View {
	return &View{
		id:         id,
		docID:      docID,
		selections: selection.NewSetAt(0),
		mode:       Mode{Kind: ModeNormal},
	}
}

func (v *View) Id() Id                  { return v.id }
func (v *View) DocumentId() document.Id { return v.docID }

// Cursor returns the head of the primary selection.
func (v *View) Cursor() rope.CharIdx {
	return v.selections.Primary().Head
}

// Selections returns the view's selection set directly; callers that
// mutate it are responsible for calling Clamp afterward if content may
// have shrunk.
func (v *View) Selections() *selection.Set { return v.selections }

// SetSelections replaces the view's selection set wholesale.
func (v *View) SetSelections(s *selection.Set) { v.selections = s }

// SetCursor collapses the view to a single cursor at the given position.
func (v *View) SetCursor(at rope.CharIdx) {
	v.selections = selection.NewSetAt(at)
}

func (v *View) ScrollLine() uint32    { return v.scrollLine }
func (v *View) ScrollSegment() uint32 { return v.scrollSegment }

// SetScroll sets the viewport anchor: a line index plus the index of the
// wrapped visual segment within that line.
func (v *View) SetScroll(line, segment uint32) {
	v.scrollLine = line
	v.scrollSegment = segment
}

func (v *View) Mode() Mode              { return v.mode }
func (v *View) SetMode(m Mode)          { v.mode = m }
func (v *View) Input() InputState       { return v.input }
func (v *View) SetInput(in InputState)  { v.input = in }

// Clamp clamps every selection range (and therefore the cursor) to
// [0, maxIdx], the invariant that must hold after any content mutation
// that may have shrunk the document.
func (v *View) Clamp(maxIdx rope.CharIdx) {
	v.selections.Clamp(maxIdx)
}

// Snapshot captures the view's restorable state for later undo/redo
// restoration. The returned selection set is an independent clone.
func (v *View) Snapshot() Snapshot {
	return Snapshot{
		Selections:    v.selections.Clone(),
		ScrollLine:    v.scrollLine,
		ScrollSegment: v.scrollSegment,
	}
}

// Restore applies a previously captured Snapshot back onto the view.
func (v *View) Restore(s Snapshot) {
	v.selections = s.Selections.Clone()
	v.scrollLine = s.ScrollLine
	v.scrollSegment = s.ScrollSegment
}
