// Package shared implements the shared-state (broker) manager: the
// client-side half of the collaborative buffer-sync protocol. It tracks,
// per open URI, ownership epoch/sequence state and a
// single-in-flight-edit pipeline, and turns transactions into the
// broker's wire format.
//
// dshills-keystorm has no collaborative broker subsystem, so this package
// is built new, following the manager-as-struct-with-map style of
// dshills-keystorm's internal/lsp/manager.go (per-document map guarded by
// a mutex) and wiring the broker frame encoding through
// github.com/tidwall/gjson and github.com/tidwall/sjson.
package shared
