package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"supplytrace/internal/model"
	"supplytrace/pkg/pagination"
)

// UserRepository defines the data access layer for the user registry
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type userRepository struct {
	ledger *Ledger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(ledger *Ledger) UserRepository {
	return &userRepository{ledger: ledger}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	l := r.ledger
	return l.mutate(ctx, func() error {
		for _, u := range l.users {
			if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
				return model.ErrAlreadyExists
			}
		}
		l.userIndex[user.ID] = len(l.users)
		l.users = append(l.users, *user)
		return nil
	}, func() {
		delete(l.userIndex, user.ID)
		l.users = l.users[:len(l.users)-1]
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var (
		user  model.User
		found bool
	)
	r.ledger.view(ctx, func() {
		var idx int
		if idx, found = r.ledger.userIndex[id]; found {
			user = r.ledger.users[idx]
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return u.Username == username })
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	r.ledger.view(ctx, func() {
		users = make([]model.User, len(r.ledger.users))
		copy(users, r.ledger.users)
	})

	return pagination.Window(users, pagination.New(page, limit)), int64(len(users)), nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	r.ledger.view(ctx, func() {
		for _, u := range r.ledger.users {
			if u.Role == role {
				n++
			}
		}
	})
	return n, nil
}

func (r *userRepository) find(ctx context.Context, match func(*model.User) bool) (*model.User, error) {
	var (
		user  model.User
		found bool
	)
	r.ledger.view(ctx, func() {
		for i := range r.ledger.users {
			if match(&r.ledger.users[i]) {
				user, found = r.ledger.users[i], true
				return
			}
		}
	})
	if !found {
		return nil, model.ErrNotFound
	}
	return &user, nil
}
