package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
)

// UserRepository provides data access methods for user accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. A username or email collision surfaces as
// ErrUsernameTaken; callers present it as a uniform failure without
// revealing which field collided.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrUsernameTaken
	}
	return err
}

// GetByUsername returns the user with the given username, or
// gorm.ErrRecordNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or gorm.ErrRecordNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches the descriptive fields of a user's own record.
// Credential fields are deliberately not reachable through this path.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, patch map[string]any) error {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&user).Updates(patch).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrUsernameTaken
	}
	return err
}
