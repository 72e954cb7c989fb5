package gormdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

type AuthRepository struct {
	db *gorm.DB
}

func (r *AuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := userModel{
		ID:             uuid.NewString(),
		Email:          user.Email,
		HashedPassword: user.PasswordHash,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userModel{}).Where("email = ?", m.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrUserExists
		}
		return tx.Create(&m).Error
	})
	switch {
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, domain.ErrUserExists
	case err != nil:
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}
