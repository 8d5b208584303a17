package syntax

import (
	"context"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// Tree wraps a parsed tree-sitter tree. Close releases the tree's native
// memory; callers must call it exactly once when the tree is evicted by
// retention or superseded by a newer install.
type Tree struct {
	native *sitter.Tree
}

// Close releases the tree's native resources. Safe to call on a zero
// Tree.
func (t Tree) Close() {
	if t.native != nil {
		t.native.Close()
	}
}

// Valid reports whether t wraps a native tree.
func (t Tree) Valid() bool { return t.native != nil }

// Native exposes the underlying tree-sitter tree for callers that need to
// walk it (e.g. a renderer's highlighter, outside this module's scope).
func (t Tree) Native() *sitter.Tree { return t.native }

// Loader resolves a language ID to a tree-sitter grammar and performs a
// single parse. Grounded on
// sacenox-symb/internal/treesitter/parser.go's langForExt/ParseSource:
// NewParser, SetLanguage, ParseCtx, tree.RootNode()/Close().
type Loader interface {
	// Parse parses src (optionally reusing oldTree incrementally via
	// edit) with injections applied per policy, returning within
	// timeout. A context deadline exceeded during ParseCtx must surface
	// as a timeout error the caller can distinguish from a grammar
	// error; this module distinguishes them by returning
	// ErrParseTimeout.
	Parse(ctx context.Context, languageID string, src []byte, oldTree Tree, edit *IncrementalEdit, injections InjectionPolicy, timeout time.Duration) (Tree, error)
}

// GrammarLoader is the default Loader, resolving a small built-in table
// of tree-sitter grammars by language ID (the grammar-fetch/build
// tooling that would populate a larger table is explicitly out of scope
// of this package).
type GrammarLoader struct{}

// NewGrammarLoader creates the default Loader.
func NewGrammarLoader() GrammarLoader { return GrammarLoader{} }

func languageFor(languageID string) *sitter.Language {
	switch languageID {
	case "go":
		return golang.GetLanguage()
	default:
		return nil
	}
}

// Supported reports whether languageID has a registered grammar.
func Supported(languageID string) bool {
	return languageFor(languageID) != nil
}

func (GrammarLoader) Parse(ctx context.Context, languageID string, src []byte, oldTree Tree, edit *IncrementalEdit, injections InjectionPolicy, timeout time.Duration) (Tree, error) {
	lang := languageFor(languageID)
	if lang == nil {
		return Tree{}, ErrUnknownLanguage
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	var base *sitter.Tree
	if oldTree.Valid() {
		base = oldTree.native
		if edit != nil {
			base.Edit(sitter.EditInput{
				StartIndex:  edit.StartByte,
				OldEndIndex: edit.OldEndByte,
				NewEndIndex: edit.NewEndByte,
			})
		}
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tree, err := parser.ParseCtx(pctx, base, src)
	if err != nil {
		if pctx.Err() != nil {
			return Tree{}, ErrParseTimeout
		}
		return Tree{}, err
	}
	if tree == nil {
		return Tree{}, ErrParseTimeout
	}
	return Tree{native: tree}, nil
}
