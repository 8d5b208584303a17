// Package lspsync implements the LSP Sync Manager: one DocSyncState
// per open document, batching edits into a debounced coalesced payload
// and sending at most one in-flight request per document at a time, with
// contiguity checking, full-sync escalation, and write-barrier timeout
// recovery.
//
// Grounded on dshills-keystorm/internal/lsp/document.go's DocumentManager
// (per-URI debounce timers) and dshills-keystorm/internal/lsp/manager.go
// (request timeout / retry shape), generalized from a per-document
// debounce timer to a tick-driven scheduler (the
// core's main loop calls Tick once per frame rather than each document
// owning its own timer goroutine).
package lspsync
