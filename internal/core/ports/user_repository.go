package ports

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/user"
)

// UserRepository resolves local accounts. Account management itself is an
// external collaborator; the order core only needs lookups.
type UserRepository interface {
	// Get retrieves a user by id. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id uint) (*user.User, error)

	// ByReferrerID resolves the account addressed by an import payload's
	// referrer identifier. Returns errs.ObjectNotFoundError when no account
	// matches; imports must abort in that case.
	ByReferrerID(ctx context.Context, referrerID string) (*user.User, error)
}
