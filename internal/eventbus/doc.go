// Package eventbus implements the typed Event & Hook Bus: the
// publish/subscribe backbone that fans a committed edit out to the LSP
// sync, syntax, and shared-state managers without the commit path ever
// blocking on a slow subscriber.
//
// Subscriptions are registered against a Topic pattern (dotted segments
// with "*" wildcards, grounded on the matching rules in
// dshills-keystorm/internal/event/topic). PublishSync delivers to every
// matching handler on the caller's goroutine, for subscribers cheap
// enough to run inline (metrics, logging hooks). PublishAsync hands the
// event to each matching subscriber's own bounded worker and returns
// immediately, so a slow or stuck downstream consumer cannot stall
// Document.Commit; a full subscriber queue drops the event and counts it
// rather than blocking the publisher.
package eventbus
