package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"supplytrace/internal/model"
	"supplytrace/internal/repository"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type BootstrapOwnerRequest struct {
	Username string
	Email    string
	Password string
}

type TokenResponse struct {
	Token string `json:"token"`
}

// DTO for returning User without exposing the password hash
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
}

// UserService is the flat user registry. It gates who may create which role;
// it is never consulted for vote eligibility.
type UserService interface {
	EnsureOwner(ctx context.Context, req BootstrapOwnerRequest) (*UserResponse, error)
	CreateUser(ctx context.Context, caller uuid.UUID, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, *UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
}

type userService struct {
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	tokens    TokenIssuer
	logger    *slog.Logger
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	tokens TokenIssuer,
	logger *slog.Logger,
) UserService {
	return &userService{
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		tokens:    tokens,
		logger:    loggerOrDefault(logger),
	}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// canCreate reports whether a caller holding callerRole may register a user with role.
// OWNER may create any role but OWNER; MANAGER may create SELLER and SUPPLIER only.
func canCreate(callerRole, role string) bool {
	switch callerRole {
	case model.RoleOwner:
		return role == model.RoleManager || role == model.RoleSeller || role == model.RoleSupplier
	case model.RoleManager:
		return role == model.RoleSeller || role == model.RoleSupplier
	}
	return false
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *userService) EnsureOwner(ctx context.Context, req BootstrapOwnerRequest) (*UserResponse, error) {
	var owner *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.repo.GetByEmail(txCtx, req.Email); err == nil {
			if existing.Role != model.RoleOwner {
				return fmt.Errorf("bootstrap email %s belongs to a %s: %w", req.Email, existing.Role, model.ErrAlreadyExists)
			}
			owner = existing
			return nil
		}

		created, err := s.register(txCtx, uuid.Nil, req.Username, req.Email, req.Password, model.RoleOwner)
		if err != nil {
			return err
		}
		owner = created
		s.logger.InfoContext(ctx, "owner bootstrapped", slog.String("user_id", created.ID.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(owner), nil
}

func (s *userService) CreateUser(ctx context.Context, caller uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	var user *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		creator, err := s.repo.GetByID(txCtx, caller)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("caller %s is not registered: %w", caller, model.ErrUnauthorized)
			}
			return fmt.Errorf("failed to load caller: %w", err)
		}

		if !model.ValidRole(req.Role) {
			return model.NewValidationError("role", "must be MANAGER, SELLER or SUPPLIER")
		}
		if !canCreate(creator.Role, req.Role) {
			return fmt.Errorf("%s may not create %s users: %w", creator.Role, req.Role, model.ErrForbidden)
		}

		user, err = s.register(txCtx, caller, req.Username, req.Email, req.Password, req.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role),
		slog.String("created_by", caller.String()),
	)
	return mapToResponse(user), nil
}

// register validates, hashes and stores a user. It must run inside a transaction.
func (s *userService) register(ctx context.Context, creator uuid.UUID, username, email, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	verr := &model.ValidationError{}
	if username == "" {
		verr.Add("username", "is required")
	}
	if !emailRegex.MatchString(email) {
		verr.Add("email", "invalid email format")
	}
	if len(password) < 6 {
		verr.Add("password", "must be at least 6 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if creator != uuid.Nil {
		user.CreatedBy = &creator
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return nil, fmt.Errorf("username or email already exists: %w", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := writeAudit(ctx, s.auditRepo, creator, model.ActionCreateUser, user.ID.String(), user.Username,
		map[string]interface{}{"role": user.Role, "email": user.Email}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, *UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid email or password: %w", model.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("invalid email or password: %w", model.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &TokenResponse{Token: token}, mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, total, nil
}
