package eventbus

import (
	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/txn"
)

// TopicProvider is implemented by event payloads that know their own
// topic, so Publish can route them without a separate topic argument at
// every call site.
type TopicProvider interface {
	EventTopic() Topic
}

// EditEvent describes one applied commit: document, versions before and
// after, and changed ranges. It is routed on TopicDocEdit; publishing it
// after Document.Commit is left to the caller, and the LSP sync, syntax,
// and shared-state managers in this module do not subscribe to it.
type EditEvent struct {
	DocID         document.Id
	PreVersion    uint64
	PostVersion   uint64
	Changes       []txn.Range
	Origin        document.EditOrigin
	SyntaxOutcome document.SyntaxOutcome
}

func (EditEvent) EventTopic() Topic { return TopicDocEdit }

// DocOpenedEvent announces a newly registered document.
type DocOpenedEvent struct {
	DocID      document.Id
	LanguageID string
}

func (DocOpenedEvent) EventTopic() Topic { return TopicDocOpened }

// DocClosedEvent announces a document whose last view has closed.
type DocClosedEvent struct {
	DocID document.Id
}

func (DocClosedEvent) EventTopic() Topic { return TopicDocClosed }

// UndoAppliedEvent announces a completed Undo or Redo.
type UndoAppliedEvent struct {
	DocIDs []document.Id
	Redo   bool
}

func (UndoAppliedEvent) EventTopic() Topic { return TopicUndoApplied }
