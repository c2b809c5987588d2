package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/pkg/pagination"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	// List returns the entries matching filter, newest first.
	List(ctx context.Context, filter model.AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	ledger *Ledger
}

func NewAuditRepository(ledger *Ledger) AuditRepository {
	return &auditRepository{ledger: ledger}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	l := r.ledger
	return l.mutate(ctx, func() error {
		l.audit = append(l.audit, *entry)
		return nil
	}, func() {
		l.audit = l.audit[:len(l.audit)-1]
	})
}

func (r *auditRepository) List(ctx context.Context, filter model.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	r.ledger.view(ctx, func() {
		for i := len(r.ledger.audit) - 1; i >= 0; i-- {
			if filter.Matches(&r.ledger.audit[i]) {
				logs = append(logs, r.ledger.audit[i])
			}
		}
	})

	return pagination.Window(logs, pagination.New(page, limit)), int64(len(logs)), nil
}
