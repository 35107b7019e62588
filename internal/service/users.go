package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recordgate/internal/model"
	"recordgate/internal/repository"
)

// RegisterInput is the profile submitted at registration.
type RegisterInput struct {
	WalletAddress string     `json:"walletAddress"`
	Name          string     `json:"name"`
	Role          model.Role `json:"role"`
	Hospital      string     `json:"hospital,omitempty"`
}

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// UserService is the registration directory. Profiles describe callers;
// they are never consulted for access decisions.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	GetByWallet(ctx context.Context, wallet string) (*model.User, error)
	List(ctx context.Context, limit, offset int) (*UserListResult, error)
	// Classify returns the caller's registered role, or "" when the caller
	// is unknown or the directory cannot be reached.
	Classify(ctx context.Context, wallet string) model.Role
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	wallet, err := parseAddress("walletAddress", in.WalletAddress)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &InputError{Field: "name", Reason: "name is required"}
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if !role.Valid() {
		return nil, &InputError{Field: "role", Reason: "role must be patient or provider"}
	}
	hospital := strings.TrimSpace(in.Hospital)
	if role == model.RoleProvider && hospital == "" {
		return nil, &InputError{Field: "hospital", Reason: "hospital is required for providers"}
	}
	if role == model.RolePatient {
		hospital = ""
	}

	u, err := s.repo.Create(ctx, &model.User{
		ID:            uuid.New().String(),
		WalletAddress: wallet,
		Name:          name,
		Role:          role,
		Hospital:      hospital,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *userService) GetByWallet(ctx context.Context, wallet string) (*model.User, error) {
	w, err := parseAddress("walletAddress", wallet)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindByWallet(ctx, w)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns paginated users without exposing repository types.
func (s *userService) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) Classify(ctx context.Context, wallet string) model.Role {
	u, err := s.GetByWallet(ctx, wallet)
	if err != nil {
		return ""
	}
	return u.Role
}
