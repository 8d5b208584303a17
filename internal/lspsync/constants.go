package lspsync

import "time"

// Debounce, batching, and timeout tunables for the sync scheduler.
const (
	MaxIncrementalChanges = 100
	MaxIncrementalBytes   = 100 * 1024

	RetryDelay = 250 * time.Millisecond
	Timeout    = 10 * time.Second
	Debounce   = 30 * time.Millisecond

	MaxDocsPerTick = 8
)
