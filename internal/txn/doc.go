// Package txn implements invertible edit transactions over rope content.
//
// A Transaction is a finite list of Retain/Insert/Delete operations that,
// applied left to right against a rope slice, consumes every input
// character exactly once. Transactions built from Change lists coalesce
// adjacent edits and can be inverted against their pre-image content,
// which is what the undo backends in package document rely on.
package txn
