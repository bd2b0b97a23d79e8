package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager is the unit-of-work boundary. Every mutating service
// operation runs inside exactly one ExecTx call: the transaction commits
// only when fn returns nil, and rolls back on every other exit path. Nested
// scopes are not supported.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
