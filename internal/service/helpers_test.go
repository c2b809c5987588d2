package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// recordingPublisher captures every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(e model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

type staticTokens struct{}

func (staticTokens) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	return role + ":" + userID.String(), nil
}

type env struct {
	ledger       *repository.Ledger
	tx           repository.TransactionManager
	ingredients  repository.IngredientRepository
	products     repository.ProductRepository
	approvals    repository.ApprovalRepository
	audit        repository.AuditRepository
	users        repository.UserRepository
	events       *recordingPublisher
	ingredient   IngredientService
	product      ProductService
	approval     ApprovalService
	trace        TraceabilityService
	stats        StatisticsService
	user         UserService
	auditService AuditService
}

func newEnv() *env {
	l := repository.NewLedger()
	e := &env{
		ledger:      l,
		tx:          repository.NewTransactionManager(l),
		ingredients: repository.NewIngredientRepository(l),
		products:    repository.NewProductRepository(l),
		approvals:   repository.NewApprovalRepository(l),
		audit:       repository.NewAuditRepository(l),
		users:       repository.NewUserRepository(l),
		events:      &recordingPublisher{},
	}
	e.ingredient = NewIngredientService(e.ingredients, e.audit, e.tx, e.events, nil)
	e.product = NewProductService(e.ingredients, e.products, e.audit, e.tx, e.events, nil)
	e.approval = NewApprovalService(e.products, e.approvals, e.audit, e.tx, e.events, nil)
	e.trace = NewTraceabilityService(e.ingredients, e.products, e.approvals, e.tx)
	e.stats = NewStatisticsService(e.ingredients, e.products, e.approvals, e.tx)
	e.user = NewUserService(e.users, e.audit, e.tx, staticTokens{}, nil)
	e.auditService = NewAuditService(e.audit)
	return e
}

func (e *env) addIngredient(t *testing.T, name string, supplier uuid.UUID) uint64 {
	t.Helper()
	resp, err := e.ingredient.AddIngredient(context.Background(), supplier, AddIngredientRequest{
		Name:     name,
		Supplier: supplier,
		Category: "raw",
	})
	require.NoError(t, err)
	return resp.ID
}

func (e *env) createProduct(t *testing.T, ingredientIDs ...uint64) ProductResponse {
	t.Helper()
	resp, err := e.product.CreateProduct(context.Background(), uuid.New(), CreateProductRequest{
		Name:          "bread",
		BatchID:       "BATCH-1",
		IngredientIDs: ingredientIDs,
	})
	require.NoError(t, err)
	return resp
}
