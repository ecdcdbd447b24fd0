package intercept

import "fmt"

// Txn is the minimal transaction handle the transactional interceptor
// drives. database/sql.Tx satisfies it directly.
type Txn interface {
	Commit() error
	Rollback() error
}

// TransactionalInterceptor wraps a call in a transaction: it begins one
// before the call, commits when the call succeeds and rolls back when it
// returns an error. It backs the built-in transactional annotation, which
// is only valid on methods with an error result so that begin and commit
// failures have somewhere to go.
type TransactionalInterceptor struct {
	begin func(inv *Invocation) (Txn, error)
}

// NewTransactionalInterceptor creates a transactional interceptor using
// the given begin function
func NewTransactionalInterceptor(begin func(inv *Invocation) (Txn, error)) *TransactionalInterceptor {
	return &TransactionalInterceptor{begin: begin}
}

// Invoke implements MethodInterceptor
func (i *TransactionalInterceptor) Invoke(inv *Invocation) (interface{}, error) {
	tx, err := i.begin(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for %s.%s: %w", inv.TypeName, inv.Method, err)
	}

	result, err := inv.Proceed()
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return result, fmt.Errorf("rollback failed after %v: %w", err, rbErr)
		}
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction for %s.%s: %w", inv.TypeName, inv.Method, err)
	}
	return result, nil
}
