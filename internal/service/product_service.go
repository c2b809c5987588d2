package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// DTOs
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	BatchID       string   `json:"batch_id" binding:"required"`
	IngredientIDs []uint64 `json:"ingredient_ids" binding:"required,min=1"`
}

type ProductFilter struct {
	Status model.ProductStatus // empty for all
	Page   int
	Limit  int
}

type ProductResponse struct {
	ID            uint64              `json:"id"`
	Name          string              `json:"name"`
	BatchID       string              `json:"batch_id"`
	IngredientIDs []uint64            `json:"ingredient_ids"`
	Suppliers     []uuid.UUID         `json:"suppliers"`
	ApprovedCount int                 `json:"approved_count"`
	RequiredCount int                 `json:"required_count"`
	Status        model.ProductStatus `json:"status"`
	CreatedBy     uuid.UUID           `json:"created_by"`
	CreatedAt     time.Time           `json:"created_at"`
	FinalizedAt   *time.Time          `json:"finalized_at"`
}

type ProgressResponse struct {
	ProductID     uint64              `json:"product_id"`
	ApprovedCount int                 `json:"approved_count"`
	RequiredCount int                 `json:"required_count"`
	Status        model.ProductStatus `json:"status"`
	// Completion is approved/required as a percentage with two decimals.
	Completion decimal.Decimal `json:"completion"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor uuid.UUID, req CreateProductRequest) (ProductResponse, error)
	GetProduct(ctx context.Context, id uint64) (ProductResponse, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductResponse, int64, error)
	GetProgress(ctx context.Context, id uint64) (ProgressResponse, error)
}

type productService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	events         EventPublisher
	logger         *slog.Logger
}

func NewProductService(
	ingredientRepo repository.IngredientRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
	logger *slog.Logger,
) ProductService {
	return &productService{
		ingredientRepo: ingredientRepo,
		productRepo:    productRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		events:         publisherOrNop(events),
		logger:         loggerOrDefault(logger),
	}
}

func (s *productService) CreateProduct(ctx context.Context, actor uuid.UUID, req CreateProductRequest) (ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	batchID := strings.TrimSpace(req.BatchID)

	verr := &model.ValidationError{}
	if name == "" {
		verr.Add("name", "is required")
	}
	if batchID == "" {
		verr.Add("batch_id", "is required")
	}
	if len(req.IngredientIDs) == 0 {
		verr.Add("ingredient_ids", "must reference at least one ingredient")
	}
	if err := verr.OrNil(); err != nil {
		return ProductResponse{}, err
	}

	var product model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// The supplier set is resolved once here and never recomputed.
		suppliers, err := ResolveSuppliers(txCtx, s.ingredientRepo, req.IngredientIDs)
		if err != nil {
			return err
		}

		product = model.Product{
			Name:          name,
			BatchID:       batchID,
			IngredientIDs: append([]uint64(nil), req.IngredientIDs...),
			Suppliers:     suppliers,
			RequiredCount: len(suppliers),
			Status:        model.ProductStatusCreated,
			CreatedBy:     actor,
			CreatedAt:     time.Now(),
		}
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateProduct,
			strconv.FormatUint(product.ID, 10), product.Name, map[string]interface{}{
				"batch_id":       product.BatchID,
				"ingredient_ids": product.IngredientIDs,
				"suppliers":      product.Suppliers,
			})
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Uint64("product_id", product.ID),
		slog.String("batch_id", product.BatchID),
		slog.Int("required_approvals", product.RequiredCount),
	)
	s.events.Publish(model.Event{
		Type:      model.EventProductCreated,
		EntityID:  product.ID,
		Actor:     actor,
		Timestamp: product.CreatedAt,
		Data: map[string]interface{}{
			"name":      product.Name,
			"batch_id":  product.BatchID,
			"suppliers": product.Suppliers,
		},
	})

	return toProductResponse(product), nil
}

func (s *productService) GetProduct(ctx context.Context, id uint64) (ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("product %d: %w", id, err)
	}
	return toProductResponse(*product), nil
}

func (s *productService) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductResponse, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, model.NewValidationError("status", "unknown product status")
	}

	products, total, err := s.productRepo.List(ctx, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, total, nil
}

func (s *productService) GetProgress(ctx context.Context, id uint64) (ProgressResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return ProgressResponse{}, fmt.Errorf("product %d: %w", id, err)
	}
	return toProgressResponse(*product), nil
}

func toProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		BatchID:       p.BatchID,
		IngredientIDs: p.IngredientIDs,
		Suppliers:     p.Suppliers,
		ApprovedCount: p.ApprovedCount,
		RequiredCount: p.RequiredCount,
		Status:        p.Status,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
	if !p.FinalizedAt.IsZero() {
		finalized := p.FinalizedAt
		resp.FinalizedAt = &finalized
	}
	return resp
}

func toProgressResponse(p model.Product) ProgressResponse {
	completion := decimal.Zero
	if p.RequiredCount > 0 {
		completion = decimal.NewFromInt(int64(p.ApprovedCount)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(p.RequiredCount))).
			Round(2)
	}

	return ProgressResponse{
		ProductID:     p.ID,
		ApprovedCount: p.ApprovedCount,
		RequiredCount: p.RequiredCount,
		Status:        p.Status,
		Completion:    completion,
	}
}
