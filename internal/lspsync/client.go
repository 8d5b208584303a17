package lspsync

import (
	"context"

	"github.com/corazon/textcore/internal/document"
)

// SendResult classifies the outcome of a send attempt against the
// opaque language-server client.
type SendResult int

const (
	SendSuccess SendResult = iota
	SendBackpressure
	SendNotReady
	SendFailed
)

// Client is the opaque language-server client collaborator this manager
// names; the core never constructs one itself, only consumes it.
type Client interface {
	DidOpen(ctx context.Context, path, language string, version uint64, text string) SendResult
	DidClose(ctx context.Context, path string) SendResult
	DidChangeFull(ctx context.Context, path string, version uint64, text string) SendResult
	DidChangeIncremental(ctx context.Context, path string, version uint64, changes []LspDocumentChange) SendResult
}

// ContentSource supplies the full text of a document for full-sync
// payloads; the sync manager never stores document content itself.
type ContentSource interface {
	FullText(docID document.Id) string
}
