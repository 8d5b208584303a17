package eventbus

import "strings"

// Topic is a dotted hierarchical name, e.g. "doc.edit" or "syntax.installed".
type Topic string

// Matches reports whether pattern matches t. A pattern segment of "*"
// matches exactly one topic segment; a trailing "**" matches the rest of
// the topic regardless of remaining segment count. Grounded on the
// wildcard rules in dshills-keystorm/internal/event/topic/matcher.go,
// simplified to the two wildcard forms this module actually needs.
func (pattern Topic) Matches(t Topic) bool {
	pSegs := strings.Split(string(pattern), ".")
	tSegs := strings.Split(string(t), ".")

	for i, p := range pSegs {
		if p == "**" {
			return true
		}
		if i >= len(tSegs) {
			return false
		}
		if p != "*" && p != tSegs[i] {
			return false
		}
	}
	return len(pSegs) == len(tSegs)
}

// Well-known topics published by the core editing engine.
const (
	// TopicDocEdit is the topic of EditEvent, the event for an applied
	// Document.Commit. Document.Commit does not publish it itself, and no
	// package in this module (including cmd/textcored) publishes it or
	// subscribes the LSP sync, syntax, or shared-state managers to it.
	TopicDocEdit Topic = "doc.edit"
	// TopicDocOpened fires when a document is registered with the
	// registry, before any commit.
	TopicDocOpened Topic = "doc.opened"
	// TopicDocClosed fires when a document's last view closes.
	TopicDocClosed Topic = "doc.closed"
	// TopicUndoApplied fires after Manager.Undo or Manager.Redo succeeds.
	TopicUndoApplied Topic = "undo.applied"
	// TopicSyntaxInstalled fires when the syntax manager installs a new
	// parse tree for a document.
	TopicSyntaxInstalled Topic = "syntax.installed"
)
