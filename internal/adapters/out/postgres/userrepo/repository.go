package userrepo

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/user"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Get retrieves a user by id.
func (r *GormUserRepository) Get(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id)
		}
		return nil, err
	}
	return &u, nil
}

// ByReferrerID resolves the account addressed by an import payload's
// referrer identifier.
func (r *GormUserRepository) ByReferrerID(ctx context.Context, referrerID string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "referrer_id = ?", referrerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("referrer", referrerID)
		}
		return nil, err
	}
	return &u, nil
}
