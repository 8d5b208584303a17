package txn

import (
	"errors"
	"fmt"

	"github.com/corazon/textcore/internal/rope"
)

// OpKind identifies the kind of a single Operation.
type OpKind uint8

const (
	// OpRetain keeps N scalars from the input unchanged.
	OpRetain OpKind = iota
	// OpInsert inserts new text; it consumes nothing from the input.
	OpInsert
	// OpDelete removes N scalars from the input.
	OpDelete
)

// Operation is one step of a Transaction.
type Operation struct {
	Kind OpKind
	N    int    // scalar count, for Retain/Delete
	Text string // inserted text, for Insert
}

// Retain builds a Retain(n) operation.
func Retain(n int) Operation { return Operation{Kind: OpRetain, N: n} }

// Insert builds an Insert(text) operation.
func Insert(text string) Operation { return Operation{Kind: OpInsert, Text: text} }

// Delete builds a Delete(n) operation.
func Delete(n int) Operation { return Operation{Kind: OpDelete, N: n} }

// Transaction is an ordered list of Operations applied left to right.
type Transaction []Operation

// ErrNotFullyConsumed is returned when a Transaction's Retain+Delete sum
// does not equal the length of the content it is applied against.
var ErrNotFullyConsumed = errors.New("txn: operations do not consume input exactly")

// consumed returns the number of input scalars the transaction consumes
// (sum of Retain and Delete counts).
func (t Transaction) consumed() int {
	n := 0
	for _, op := range t {
		switch op.Kind {
		case OpRetain, OpDelete:
			n += op.N
		}
	}
	return n
}

// Validate checks that the transaction consumes exactly inputLen scalars.
func (t Transaction) Validate(inputLen int) error {
	if got := t.consumed(); got != inputLen {
		return fmt.Errorf("%w: consumed %d, input has %d", ErrNotFullyConsumed, got, inputLen)
	}
	return nil
}

// Apply applies the transaction to a rope, returning the resulting rope.
// The caller is responsible for ensuring Validate(int(r.LenChars())) holds;
// Apply does not itself validate so callers building up partial
// transactions can use it in tests without a full Retain tail.
func (t Transaction) Apply(r rope.Rope) rope.Rope {
	var pos rope.CharIdx
	for _, op := range t {
		switch op.Kind {
		case OpRetain:
			pos += rope.CharIdx(op.N)
		case OpDelete:
			r = r.DeleteChars(pos, pos+rope.CharIdx(op.N))
		case OpInsert:
			r = r.InsertChars(pos, op.Text)
			pos += rope.CharIdx(len([]rune(op.Text)))
		}
	}
	return r
}

// Invert builds the inverse transaction of t against its pre-image rope
// `pre`. Applying t then Invert(pre) to the result of t yields pre back.
func (t Transaction) Invert(pre rope.Rope) Transaction {
	inv := make(Transaction, 0, len(t))
	var pos rope.CharIdx
	for _, op := range t {
		switch op.Kind {
		case OpRetain:
			inv = append(inv, Retain(op.N))
			pos += rope.CharIdx(op.N)
		case OpDelete:
			deleted := pre.SliceChars(pos, pos+rope.CharIdx(op.N))
			inv = append(inv, Insert(deleted))
			pos += rope.CharIdx(op.N)
		case OpInsert:
			inv = append(inv, Delete(len([]rune(op.Text))))
		}
	}
	return inv
}

// IsNoop returns true if applying the transaction would change nothing:
// every operation is a Retain.
func (t Transaction) IsNoop() bool {
	for _, op := range t {
		if op.Kind != OpRetain {
			return false
		}
	}
	return true
}
