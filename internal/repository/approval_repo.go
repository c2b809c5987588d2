package repository

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"supplytrace/internal/model"
)

// ApprovalRepository owns the vote map and the append-only approval history.
type ApprovalRepository interface {
	// GetVote returns VoteNone for a supplier that has not voted.
	GetVote(ctx context.Context, productID uint64, supplier uuid.UUID) (model.Vote, error)
	// Votes returns a copy of the product's vote map. Suppliers that have
	// not voted are absent from it.
	Votes(ctx context.Context, productID uint64) (map[uuid.UUID]model.Vote, error)
	// RecordVote sets the supplier's vote and appends rec to the history in
	// one step. A supplier whose vote is not VoteNone cannot vote again.
	RecordVote(ctx context.Context, rec model.ApprovalRecord) error
	History(ctx context.Context, productID uint64) ([]model.ApprovalRecord, error)
}

type approvalRepository struct {
	ledger *Ledger
}

func NewApprovalRepository(ledger *Ledger) ApprovalRepository {
	return &approvalRepository{ledger: ledger}
}

func (r *approvalRepository) GetVote(ctx context.Context, productID uint64, supplier uuid.UUID) (model.Vote, error) {
	vote := model.VoteNone
	var found bool
	r.ledger.view(ctx, func() {
		if _, found = r.ledger.productAt(productID); !found {
			return
		}
		if v, ok := r.ledger.votes[productID][supplier]; ok {
			vote = v
		}
	})
	if !found {
		return model.VoteNone, model.ErrNotFound
	}
	return vote, nil
}

func (r *approvalRepository) Votes(ctx context.Context, productID uint64) (map[uuid.UUID]model.Vote, error) {
	var (
		out   map[uuid.UUID]model.Vote
		found bool
	)
	r.ledger.view(ctx, func() {
		if _, found = r.ledger.productAt(productID); !found {
			return
		}
		out = make(map[uuid.UUID]model.Vote, len(r.ledger.votes[productID]))
		for k, v := range r.ledger.votes[productID] {
			out[k] = v
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return out, nil
}

func (r *approvalRepository) RecordVote(ctx context.Context, rec model.ApprovalRecord) error {
	l := r.ledger
	return l.mutate(ctx, func() error {
		if _, ok := l.productAt(rec.ProductID); !ok {
			return model.ErrNotFound
		}
		if rec.Decision != model.VoteApproved && rec.Decision != model.VoteRejected {
			return model.NewValidationError("decision", "must be APPROVED or REJECTED")
		}
		votes := l.votes[rec.ProductID]
		if votes == nil {
			votes = make(map[uuid.UUID]model.Vote)
			l.votes[rec.ProductID] = votes
		}
		if v, ok := votes[rec.Supplier]; ok && v != model.VoteNone {
			return model.ErrNotAuthorizedSupplier
		}
		votes[rec.Supplier] = rec.Decision
		l.history[rec.ProductID] = append(l.history[rec.ProductID], rec)
		return nil
	}, func() {
		delete(l.votes[rec.ProductID], rec.Supplier)
		h := l.history[rec.ProductID]
		l.history[rec.ProductID] = h[:len(h)-1]
	})
}

func (r *approvalRepository) History(ctx context.Context, productID uint64) ([]model.ApprovalRecord, error) {
	var (
		out   []model.ApprovalRecord
		found bool
	)
	r.ledger.view(ctx, func() {
		if _, found = r.ledger.productAt(productID); found {
			out = slices.Clone(r.ledger.history[productID])
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return out, nil
}
