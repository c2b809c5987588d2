package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// --- DTOs ---

type RejectRequestDTO struct {
	Reason string `json:"reason"`
}

type ApprovalRecordResponse struct {
	Supplier    uuid.UUID  `json:"supplier"`
	Decision    model.Vote `json:"decision"`
	RespondedAt time.Time  `json:"responded_at"`
}

type VoteResponse struct {
	ProductID uint64     `json:"product_id"`
	Supplier  uuid.UUID  `json:"supplier"`
	Eligible  bool       `json:"eligible"`
	Vote      model.Vote `json:"vote"`
}

// --- Interface ---

// ApprovalService is the per-product voting engine. Every supplier in a
// product's supplier set votes exactly once; unanimous approval moves the
// product to APPROVED, a single rejection moves it to REJECTED at once.
type ApprovalService interface {
	Approve(ctx context.Context, productID uint64, caller uuid.UUID) (ProductResponse, error)
	Reject(ctx context.Context, productID uint64, caller uuid.UUID, reason string) (ProductResponse, error)
	GetVote(ctx context.Context, productID uint64, supplier uuid.UUID) (VoteResponse, error)
	GetHistory(ctx context.Context, productID uint64) ([]ApprovalRecordResponse, error)
	ListPendingForSupplier(ctx context.Context, supplier uuid.UUID) ([]ProductResponse, error)
}

type approvalService struct {
	productRepo  repository.ProductRepository
	approvalRepo repository.ApprovalRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	events       EventPublisher
	logger       *slog.Logger
}

func NewApprovalService(
	productRepo repository.ProductRepository,
	approvalRepo repository.ApprovalRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
	logger *slog.Logger,
) ApprovalService {
	return &approvalService{
		productRepo:  productRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		events:       publisherOrNop(events),
		logger:       loggerOrDefault(logger),
	}
}

// --- Implementation ---

func (s *approvalService) Approve(ctx context.Context, productID uint64, caller uuid.UUID) (ProductResponse, error) {
	product, err := s.castVote(ctx, productID, caller, model.VoteApproved, "")
	if err != nil {
		return ProductResponse{}, err
	}

	s.events.Publish(model.Event{
		Type:      model.EventProductApproved,
		EntityID:  product.ID,
		Actor:     caller,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"approved_count": product.ApprovedCount,
			"required_count": product.RequiredCount,
		},
	})
	if product.Status == model.ProductStatusApproved {
		s.events.Publish(model.Event{
			Type:      model.EventProductFullyApproved,
			EntityID:  product.ID,
			Actor:     caller,
			Timestamp: product.FinalizedAt,
			Data: map[string]interface{}{
				"batch_id": product.BatchID,
			},
		})
	}

	return toProductResponse(product), nil
}

func (s *approvalService) Reject(ctx context.Context, productID uint64, caller uuid.UUID, reason string) (ProductResponse, error) {
	product, err := s.castVote(ctx, productID, caller, model.VoteRejected, reason)
	if err != nil {
		return ProductResponse{}, err
	}

	s.events.Publish(model.Event{
		Type:      model.EventProductRejected,
		EntityID:  product.ID,
		Actor:     caller,
		Timestamp: product.FinalizedAt,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})

	return toProductResponse(product), nil
}

// castVote applies one vote atomically: vote map, history, counters, status
// and audit row either all change or none do.
func (s *approvalService) castVote(ctx context.Context, productID uint64, caller uuid.UUID, decision model.Vote, reason string) (model.Product, error) {
	var product model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.productRepo.FindByID(txCtx, productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}

		vote, err := s.approvalRepo.GetVote(txCtx, productID, caller)
		if err != nil {
			return fmt.Errorf("failed to read vote: %w", err)
		}
		// Ineligible and already-voted callers get the same error.
		if !p.HasSupplier(caller) || vote != model.VoteNone {
			return fmt.Errorf("product %d, caller %s: %w", productID, caller, model.ErrNotAuthorizedSupplier)
		}
		if p.IsFinalized() {
			return fmt.Errorf("product %d is %s: %w", productID, p.Status, model.ErrProductFinalized)
		}

		now := time.Now()
		if err := s.approvalRepo.RecordVote(txCtx, model.ApprovalRecord{
			ProductID:   productID,
			Supplier:    caller,
			Decision:    decision,
			RespondedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}

		previous := p.Status
		switch decision {
		case model.VoteApproved:
			p.ApprovedCount++
			if p.ApprovedCount == p.RequiredCount {
				p.Status = model.ProductStatusApproved
				p.FinalizedAt = now
			} else {
				p.Status = model.ProductStatusPending
			}
		case model.VoteRejected:
			p.Status = model.ProductStatusRejected
			p.FinalizedAt = now
		}

		if err := s.productRepo.Update(txCtx, p); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		action := model.ActionApproveProduct
		details := map[string]interface{}{
			"old_status":     previous,
			"new_status":     p.Status,
			"approved_count": p.ApprovedCount,
			"required_count": p.RequiredCount,
		}
		if decision == model.VoteRejected {
			action = model.ActionRejectProduct
			details["reason"] = reason
		}
		if err := writeAudit(txCtx, s.auditRepo, caller, action, strconv.FormatUint(p.ID, 10), p.Name, details); err != nil {
			return err
		}

		product = *p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	s.logger.InfoContext(ctx, "vote recorded",
		slog.Uint64("product_id", product.ID),
		slog.String("supplier", caller.String()),
		slog.String("decision", string(decision)),
		slog.String("status", string(product.Status)),
		slog.Int("approved_count", product.ApprovedCount),
		slog.Int("required_count", product.RequiredCount),
	)
	return product, nil
}

func (s *approvalService) GetVote(ctx context.Context, productID uint64, supplier uuid.UUID) (VoteResponse, error) {
	var resp VoteResponse
	err := s.txManager.View(ctx, func(viewCtx context.Context) error {
		p, err := s.productRepo.FindByID(viewCtx, productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}
		vote, err := s.approvalRepo.GetVote(viewCtx, productID, supplier)
		if err != nil {
			return fmt.Errorf("failed to read vote: %w", err)
		}
		resp = VoteResponse{
			ProductID: productID,
			Supplier:  supplier,
			Eligible:  p.HasSupplier(supplier),
			Vote:      vote,
		}
		return nil
	})
	return resp, err
}

func (s *approvalService) GetHistory(ctx context.Context, productID uint64) ([]ApprovalRecordResponse, error) {
	records, err := s.approvalRepo.History(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, err)
	}
	return toApprovalRecordResponses(records), nil
}

func (s *approvalService) ListPendingForSupplier(ctx context.Context, supplier uuid.UUID) ([]ProductResponse, error) {
	var res []ProductResponse
	err := s.txManager.View(ctx, func(viewCtx context.Context) error {
		products, err := s.productRepo.All(viewCtx)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		res = make([]ProductResponse, 0)
		for _, p := range products {
			if p.IsFinalized() || !p.HasSupplier(supplier) {
				continue
			}
			vote, err := s.approvalRepo.GetVote(viewCtx, p.ID, supplier)
			if err != nil {
				return fmt.Errorf("failed to read vote: %w", err)
			}
			if vote == model.VoteNone {
				res = append(res, toProductResponse(p))
			}
		}
		return nil
	})
	return res, err
}

func toApprovalRecordResponses(records []model.ApprovalRecord) []ApprovalRecordResponse {
	res := make([]ApprovalRecordResponse, 0, len(records))
	for _, r := range records {
		res = append(res, ApprovalRecordResponse{
			Supplier:    r.Supplier,
			Decision:    r.Decision,
			RespondedAt: r.RespondedAt,
		})
	}
	return res
}
