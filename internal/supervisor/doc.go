// Package supervisor implements the actor + mailbox runtime that
// backs every long-running worker in the core editing engine: LSP sends,
// syntax parse tasks, and broker transport I/O all run as supervised
// actors so a crash or hang in one never wedges the main loop.
//
// Grounded on dshills-keystorm/internal/lsp/supervisor.go (restart policy,
// exponential backoff, reset window) and
// dshills-keystorm/internal/integration/process/supervisor.go (process
// lifecycle, exit classification), generalized from "one language server
// per language" to "one actor per TaskClass instance" and from OS
// processes to goroutines coordinated by a per-generation
// context.Context.
package supervisor
