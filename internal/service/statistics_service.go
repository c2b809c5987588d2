package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// StatisticsService aggregates ledger activity by identity.
type StatisticsService interface {
	GetUserStats(ctx context.Context, identity uuid.UUID) (model.UserStats, error)
}

type statisticsService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	approvalRepo   repository.ApprovalRepository
	txManager      repository.TransactionManager
}

func NewStatisticsService(
	ingredientRepo repository.IngredientRepository,
	productRepo repository.ProductRepository,
	approvalRepo repository.ApprovalRepository,
	txManager repository.TransactionManager,
) StatisticsService {
	return &statisticsService{
		ingredientRepo: ingredientRepo,
		productRepo:    productRepo,
		approvalRepo:   approvalRepo,
		txManager:      txManager,
	}
}

// GetUserStats scans the whole ledger under one read snapshot.
func (s *statisticsService) GetUserStats(ctx context.Context, identity uuid.UUID) (model.UserStats, error) {
	stats := model.UserStats{Identity: identity}
	err := s.txManager.View(ctx, func(viewCtx context.Context) error {
		ingredients, err := s.ingredientRepo.List(viewCtx)
		if err != nil {
			return fmt.Errorf("failed to list ingredients: %w", err)
		}
		for _, ing := range ingredients {
			if ing.Supplier == identity {
				stats.IngredientsSupplied++
			}
		}

		products, err := s.productRepo.All(viewCtx)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		for _, p := range products {
			if p.CreatedBy == identity {
				stats.ProductsCreated++
			}
			if !p.HasSupplier(identity) {
				continue
			}
			stats.ProductsInvolved++

			votes, err := s.approvalRepo.Votes(viewCtx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to read votes: %w", err)
			}
			switch votes[identity] {
			case model.VoteApproved:
				stats.ApprovedVotes++
			case model.VoteRejected:
				stats.RejectedVotes++
			default:
				if !p.IsFinalized() {
					stats.PendingApprovals++
				}
			}
		}
		return nil
	})
	return stats, err
}
