package repository

import (
	"context"

	"recordgate/internal/model"
)

// UserRepository defines data access for registered profiles using SQL queries only.
// No business logic here, strictly persistence operations.
type UserRepository interface {
	// Create inserts a new profile. The wallet address must already be canonical.
	// Returns ErrDuplicate when the wallet address is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByWallet returns the profile registered for a canonical wallet address,
	// or ErrNotFound.
	FindByWallet(ctx context.Context, wallet string) (*model.User, error)

	// List returns a page of profiles, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
}
