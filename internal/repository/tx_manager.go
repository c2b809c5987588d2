package repository

import (
	"context"

	"supplytrace/internal/model"
)

type contextKey string

const txKey contextKey = "ledger_tx"

// txState travels in the context of a running transaction or view. It must
// not be handed to another goroutine: the lock it stands for is held by the
// goroutine that opened it.
type txState struct {
	ledger   *Ledger
	readOnly bool
	undo     []func()
}

// TransactionManager runs units of work against the ledger atomically.
type TransactionManager interface {
	// RunInTx holds the ledger write lock for the duration of fn. If fn
	// returns an error (or panics) every write made through txCtx is undone.
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// View holds the read lock for the duration of fn so that several reads
	// observe one consistent snapshot. Writes through viewCtx fail.
	View(ctx context.Context, fn func(viewCtx context.Context) error) error
}

type transactionManager struct {
	ledger *Ledger
}

func NewTransactionManager(ledger *Ledger) TransactionManager {
	return &transactionManager{ledger: ledger}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if tx := t.ledger.txFrom(ctx); tx != nil {
		if tx.readOnly {
			return model.ErrReadOnly
		}
		// Join the outer transaction.
		return fn(ctx)
	}

	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()

	tx := &txState{ledger: t.ledger}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (t *transactionManager) View(ctx context.Context, fn func(viewCtx context.Context) error) error {
	if t.ledger.txFrom(ctx) != nil {
		return fn(ctx)
	}

	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey, &txState{ledger: t.ledger, readOnly: true}))
}

func (tx *txState) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// txFrom extracts the transaction bound to this ledger from ctx, if any.
func (l *Ledger) txFrom(ctx context.Context) *txState {
	if tx, ok := ctx.Value(txKey).(*txState); ok && tx.ledger == l {
		return tx
	}
	return nil
}
