package syntax

import (
	"time"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/rope"
)

// Hotness classes a document's on-screen visibility, per the
// glossary.
type Hotness uint8

const (
	Cold Hotness = iota
	Warm
	Visible
)

// TaskClass identifies what kind of parse a task performs.
type TaskClass uint8

const (
	TaskFull TaskClass = iota
	TaskIncremental
	TaskViewport
)

func (c TaskClass) String() string {
	switch c {
	case TaskFull:
		return "full"
	case TaskIncremental:
		return "incremental"
	case TaskViewport:
		return "viewport"
	default:
		return "?"
	}
}

// ByteRange is a half-open [Start, End) byte span.
type ByteRange struct {
	Start uint32
	End   uint32
}

func (r ByteRange) Covers(other ByteRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// IncrementalEdit describes the single edit tree-sitter needs to reuse
// the previous parse incrementally (a tree-sitter InputEdit).
type IncrementalEdit struct {
	StartByte  uint32
	OldEndByte uint32
	NewEndByte uint32
}

// TaskSpec fully describes one parse task handed to a worker.
type TaskSpec struct {
	DocID      document.Id
	Epoch      uint64
	DocVersion uint64
	LanguageID string
	OptionsKey string
	Class      TaskClass
	Viewport   *ByteRange
	Incremental *IncrementalEdit
	Injections InjectionPolicy
	Timeout    time.Duration
	Loader     Loader
	Content    rope.Rope
}

// TaskOutcome classifies how a task finished.
type TaskOutcome uint8

const (
	TaskOutcomeSuccess TaskOutcome = iota
	TaskOutcomeTimeout
	TaskOutcomeError
)

// CompletedSyntaxTask is a task's result, queued for processing on the
// next EnsureSyntax poll.
type CompletedSyntaxTask struct {
	DocID      document.Id
	Epoch      uint64
	DocVersion uint64
	LanguageID string
	OptionsKey string
	Class      TaskClass
	Outcome    TaskOutcome
	Tree       Tree
	Coverage   *ByteRange
	Elapsed    time.Duration
	Err        error
}

// Ctx is the input EnsureSyntax evaluates on every call, per the
// §4.4.
type Ctx struct {
	DocID      document.Id
	DocVersion uint64
	LanguageID string
	Content    rope.Rope
	Hotness    Hotness
	Loader     Loader
	Viewport   *ByteRange
	OptionsKey string
	Now        time.Time
}

// Outcome is EnsureSyntax's return value.
type Outcome uint8

const (
	OutcomeReady Outcome = iota
	OutcomePending
	OutcomeDisabled
	OutcomeNoLanguage
	OutcomeCoolingDown
	OutcomeKicked
	OutcomeThrottled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomePending:
		return "pending"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeNoLanguage:
		return "no_language"
	case OutcomeCoolingDown:
		return "cooling_down"
	case OutcomeKicked:
		return "kicked"
	case OutcomeThrottled:
		return "throttled"
	default:
		return "?"
	}
}
