package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery selects audit entries. Empty strings match everything.
type AuditQuery struct {
	Action   string
	EntityID string
	UserID   string
	Page     int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns the matching audit entries, newest first.
func (s *auditService) GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.List(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userID := ""
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}

func (q AuditQuery) filter() (model.AuditFilter, error) {
	filter := model.AuditFilter{
		Action:   strings.ToUpper(strings.TrimSpace(q.Action)),
		EntityID: strings.TrimSpace(q.EntityID),
	}

	verr := &model.ValidationError{}
	if filter.Action != "" && !model.ValidAction(filter.Action) {
		verr.Add("action", "unknown audit action")
	}
	if raw := strings.TrimSpace(q.UserID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			verr.Add("user_id", "must be a UUID")
		} else {
			filter.UserID = &id
		}
	}
	return filter, verr.OrNil()
}

// writeAudit records one audit row through ctx, so inside RunInTx it rolls
// back together with the mutation it describes.
func writeAudit(ctx context.Context, repo repository.AuditRepository, actor uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	var uid *uuid.UUID
	if actor != uuid.Nil {
		uid = &actor
	}

	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
