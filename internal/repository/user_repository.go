package repository

import (
	"context"
	"errors"
	"fmt"

	"trade-journal/internal/model"
	"trade-journal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string, opts ...utils.DBOption) (*model.User, error)
	GetUserByID(ctx context.Context, id string, opts ...utils.DBOption) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User, opts ...utils.DBOption) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// GetUserByEmail returns nil, nil when no user has that email.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string, opts ...utils.DBOption) (*model.User, error) {
	return r.first(ctx, "email = ?", email, opts...)
}

// GetUserByID returns nil, nil when the user does not exist.
func (r *userRepository) GetUserByID(ctx context.Context, id string, opts ...utils.DBOption) (*model.User, error) {
	return r.first(ctx, "id = ?", id, opts...)
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where(query, arg).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &user, nil
}

// CreateUser assigns an id when the user has none.
func (r *userRepository) CreateUser(ctx context.Context, user *model.User, opts ...utils.DBOption) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
