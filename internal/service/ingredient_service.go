package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// DTOs
type AddIngredientRequest struct {
	Name     string    `json:"name" binding:"required"`
	Supplier uuid.UUID `json:"supplier"`
	Category string    `json:"category" binding:"required"`
}

type IngredientResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Supplier  uuid.UUID `json:"supplier"`
	Category  string    `json:"category"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

type IngredientService interface {
	AddIngredient(ctx context.Context, actor uuid.UUID, req AddIngredientRequest) (IngredientResponse, error)
	GetIngredient(ctx context.Context, id uint64) (IngredientResponse, error)
	ListAvailableIngredients(ctx context.Context, page, limit int) ([]IngredientResponse, int64, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	events         EventPublisher
	logger         *slog.Logger
}

func NewIngredientService(
	ingredientRepo repository.IngredientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
	logger *slog.Logger,
) IngredientService {
	return &ingredientService{
		ingredientRepo: ingredientRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		events:         publisherOrNop(events),
		logger:         loggerOrDefault(logger),
	}
}

func (s *ingredientService) AddIngredient(ctx context.Context, actor uuid.UUID, req AddIngredientRequest) (IngredientResponse, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	verr := &model.ValidationError{}
	if name == "" {
		verr.Add("name", "is required")
	}
	if category == "" {
		verr.Add("category", "is required")
	}
	if req.Supplier == uuid.Nil {
		verr.Add("supplier", "must not be the null identity")
	}
	if err := verr.OrNil(); err != nil {
		return IngredientResponse{}, err
	}

	ing := model.Ingredient{
		Name:      name,
		Supplier:  req.Supplier,
		Category:  category,
		Available: true,
		CreatedAt: time.Now(),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ingredientRepo.Create(txCtx, &ing); err != nil {
			return fmt.Errorf("failed to create ingredient: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actor, model.ActionAddIngredient,
			strconv.FormatUint(ing.ID, 10), ing.Name, map[string]interface{}{
				"supplier": ing.Supplier.String(),
				"category": ing.Category,
			})
	})
	if err != nil {
		return IngredientResponse{}, err
	}

	s.logger.InfoContext(ctx, "ingredient added",
		slog.Uint64("ingredient_id", ing.ID),
		slog.String("supplier", ing.Supplier.String()),
	)
	s.events.Publish(model.Event{
		Type:      model.EventIngredientAdded,
		EntityID:  ing.ID,
		Actor:     actor,
		Timestamp: ing.CreatedAt,
		Data: map[string]interface{}{
			"name":     ing.Name,
			"supplier": ing.Supplier.String(),
			"category": ing.Category,
		},
	})

	return toIngredientResponse(ing), nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint64) (IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return IngredientResponse{}, fmt.Errorf("ingredient %d: %w", id, err)
	}
	return toIngredientResponse(*ing), nil
}

func (s *ingredientService) ListAvailableIngredients(ctx context.Context, page, limit int) ([]IngredientResponse, int64, error) {
	items, total, err := s.ingredientRepo.ListAvailable(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ingredients: %w", err)
	}

	res := make([]IngredientResponse, 0, len(items))
	for _, ing := range items {
		res = append(res, toIngredientResponse(ing))
	}
	return res, total, nil
}

func toIngredientResponse(ing model.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:        ing.ID,
		Name:      ing.Name,
		Supplier:  ing.Supplier,
		Category:  ing.Category,
		Available: ing.Available,
		CreatedAt: ing.CreatedAt,
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
