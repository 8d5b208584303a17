package syntax

import "errors"

var (
	// ErrUnknownLanguage is returned by GrammarLoader.Parse when no
	// grammar is registered for the requested language ID.
	ErrUnknownLanguage = errors.New("syntax: unknown language")
	// ErrParseTimeout is returned when a parse does not finish
	// within its budgeted timeout.
	ErrParseTimeout = errors.New("syntax: parse timeout")
)
