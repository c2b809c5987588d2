// Package repository holds the in-memory ledger and the repositories that
// read and write it. All repositories built from one Ledger share its lock.
package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"supplytrace/internal/model"
)

// Ledger is the authoritative in-memory record of ingredients, products,
// votes, users and audit entries. Ingredient and product IDs are their
// 1-based position in the backing slices.
type Ledger struct {
	mu sync.RWMutex

	ingredients []model.Ingredient
	products    []model.Product
	votes       map[uint64]map[uuid.UUID]model.Vote
	history     map[uint64][]model.ApprovalRecord

	users     []model.User
	userIndex map[uuid.UUID]int

	audit []model.AuditLog
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		votes:     make(map[uint64]map[uuid.UUID]model.Vote),
		history:   make(map[uint64][]model.ApprovalRecord),
		userIndex: make(map[uuid.UUID]int),
	}
}

// view runs fn with read access. Inside a transaction or view the lock is
// already held by the caller.
func (l *Ledger) view(ctx context.Context, fn func()) {
	if l.txFrom(ctx) != nil {
		fn()
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn()
}

// mutate runs apply with write access. Inside a transaction, undo is journaled
// so the transaction can be rolled back; outside, apply runs under its own lock.
func (l *Ledger) mutate(ctx context.Context, apply func() error, undo func()) error {
	if tx := l.txFrom(ctx); tx != nil {
		if tx.readOnly {
			return model.ErrReadOnly
		}
		if err := apply(); err != nil {
			return err
		}
		tx.undo = append(tx.undo, undo)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return apply()
}

func (l *Ledger) productAt(id uint64) (*model.Product, bool) {
	if id == 0 || id > uint64(len(l.products)) {
		return nil, false
	}
	return &l.products[id-1], true
}

func (l *Ledger) ingredientAt(id uint64) (*model.Ingredient, bool) {
	if id == 0 || id > uint64(len(l.ingredients)) {
		return nil, false
	}
	return &l.ingredients[id-1], true
}
