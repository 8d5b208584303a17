// Package syntax implements a tiered syntax-parsing scheduler:
// size-tiered debounce/cooldown/retention, viewport two-stage parsing
// (coverage then enrichment), timeout-aware task lifecycle, and
// monotonic tree installation.
//
// Parsing itself is grounded on sacenox-symb/internal/treesitter/parser.go
// (github.com/smacker/go-tree-sitter: NewParser, SetLanguage, ParseCtx,
// tree.RootNode/Close), generalized from "parse a whole file once" to
// "parse a byte range of a document that may be mid-edit, on a budgeted
// timeout, possibly only over a viewport". The tier/debounce/cooldown
// scheduling state machine has no analogue in dshills-keystorm, which has
// no tree-sitter integration, and is built new, following dshills-keystorm's
// internal/lsp/supervisor.go for its size-keyed config-table shape
// (DefaultSupervisorConfig) and document.Document.Commit's
// single-pass "one function walks the whole state machine" shape.
package syntax
