package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

type TracedIngredient struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Supplier uuid.UUID `json:"supplier"`
}

type TraceabilityResponse struct {
	ProductID   uint64                   `json:"product_id"`
	Name        string                   `json:"name"`
	BatchID     string                   `json:"batch_id"`
	Status      model.ProductStatus      `json:"status"`
	Ingredients []TracedIngredient       `json:"ingredients"`
	Suppliers   []uuid.UUID              `json:"suppliers"`
	Approvals   []ApprovalRecordResponse `json:"approvals"`
	CreatedAt   time.Time                `json:"created_at"`
	FinalizedAt time.Time                `json:"finalized_at"`
}

// TraceabilityService discloses provenance only for unanimously approved batches.
type TraceabilityService interface {
	GetTraceability(ctx context.Context, productID uint64) (TraceabilityResponse, error)
}

type traceabilityService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	approvalRepo   repository.ApprovalRepository
	txManager      repository.TransactionManager
}

func NewTraceabilityService(
	ingredientRepo repository.IngredientRepository,
	productRepo repository.ProductRepository,
	approvalRepo repository.ApprovalRepository,
	txManager repository.TransactionManager,
) TraceabilityService {
	return &traceabilityService{
		ingredientRepo: ingredientRepo,
		productRepo:    productRepo,
		approvalRepo:   approvalRepo,
		txManager:      txManager,
	}
}

func (s *traceabilityService) GetTraceability(ctx context.Context, productID uint64) (TraceabilityResponse, error) {
	var resp TraceabilityResponse
	err := s.txManager.View(ctx, func(viewCtx context.Context) error {
		p, err := s.productRepo.FindByID(viewCtx, productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}
		if p.Status != model.ProductStatusApproved {
			return fmt.Errorf("product %d is %s: %w", productID, p.Status, model.ErrNotYetApproved)
		}

		ingredients := make([]TracedIngredient, 0, len(p.IngredientIDs))
		for _, id := range p.IngredientIDs {
			ing, err := s.ingredientRepo.FindByID(viewCtx, id)
			if err != nil {
				return fmt.Errorf("failed to join ingredient %d: %w", id, err)
			}
			ingredients = append(ingredients, TracedIngredient{
				ID:       ing.ID,
				Name:     ing.Name,
				Category: ing.Category,
				Supplier: ing.Supplier,
			})
		}

		history, err := s.approvalRepo.History(viewCtx, productID)
		if err != nil {
			return fmt.Errorf("failed to load approvals: %w", err)
		}

		resp = TraceabilityResponse{
			ProductID:   p.ID,
			Name:        p.Name,
			BatchID:     p.BatchID,
			Status:      p.Status,
			Ingredients: ingredients,
			Suppliers:   p.Suppliers,
			Approvals:   toApprovalRecordResponses(history),
			CreatedAt:   p.CreatedAt,
			FinalizedAt: p.FinalizedAt,
		}
		return nil
	})
	if err != nil {
		return TraceabilityResponse{}, err
	}
	return resp, nil
}
