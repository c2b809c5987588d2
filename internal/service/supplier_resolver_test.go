package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplytrace/internal/model"
)

type mapLookup map[uint64]*model.Ingredient

func (m mapLookup) FindByID(_ context.Context, id uint64) (*model.Ingredient, error) {
	ing, ok := m[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return ing, nil
}

func TestResolveSuppliers_FirstSeenOrder(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	lookup := mapLookup{
		1: {ID: 1, Supplier: s1, Available: true},
		2: {ID: 2, Supplier: s2, Available: true},
		3: {ID: 3, Supplier: s1, Available: true},
	}

	got, err := ResolveSuppliers(context.Background(), lookup, []uint64{3, 2, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s1, s2}, got)
}

func TestResolveSuppliers_AllOrNothing(t *testing.T) {
	s := uuid.New()
	lookup := mapLookup{
		1: {ID: 1, Supplier: s, Available: true},
		2: {ID: 2, Supplier: s, Available: false},
	}

	tests := []struct {
		name string
		ids  []uint64
	}{
		{"out of range", []uint64{1, 9}},
		{"zero id", []uint64{0}},
		{"unavailable", []uint64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSuppliers(context.Background(), lookup, tt.ids)
			require.ErrorIs(t, err, model.ErrUnknownOrUnavailableIngredient)
			assert.Nil(t, got)
		})
	}
}

func TestResolveSuppliers_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	pool := make([]uuid.UUID, 5)
	for i := range pool {
		pool[i] = uuid.New()
	}
	// Ingredient i+1 is supplied by pool[i%len(pool)].
	lookup := mapLookup{}
	for i := 0; i < 20; i++ {
		lookup[uint64(i+1)] = &model.Ingredient{ID: uint64(i + 1), Supplier: pool[i%len(pool)], Available: true}
	}

	idsGen := gen.SliceOf(gen.UInt64Range(1, 20))

	properties.Property("result is unique and ordered by first occurrence", prop.ForAll(
		func(ids []uint64) bool {
			got, err := ResolveSuppliers(context.Background(), lookup, ids)
			if err != nil {
				return false
			}
			var want []uuid.UUID
			seen := map[uuid.UUID]bool{}
			for _, id := range ids {
				s := lookup[id].Supplier
				if !seen[s] {
					seen[s] = true
					want = append(want, s)
				}
			}
			if len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		idsGen,
	))

	properties.Property("every supplier of the input appears in the result", prop.ForAll(
		func(ids []uint64) bool {
			got, err := ResolveSuppliers(context.Background(), lookup, ids)
			if err != nil {
				return false
			}
			in := map[uuid.UUID]bool{}
			for _, s := range got {
				in[s] = true
			}
			for _, id := range ids {
				if !in[lookup[id].Supplier] {
					return false
				}
			}
			return true
		},
		idsGen,
	))

	properties.TestingRun(t)
}
