package repository

import (
	"context"
	"errors"
	"fmt"

	"forum/backend/models"

	"github.com/samber/mo"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (mo.Option[models.User], error)
	FindByID(ctx context.Context, id uint) (mo.Option[models.User], error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (mo.Option[models.User], error) {
	return r.first(ctx, "email = ?", email)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (mo.Option[models.User], error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (mo.Option[models.User], error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profiles").Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[models.User](), nil
	}
	if err != nil {
		return mo.None[models.User](), fmt.Errorf("find user: %w", err)
	}
	return mo.Some(user), nil
}
