package repository

import (
	"context"
	"errors"
	"fmt"

	"forum/backend/models"

	"gorm.io/gorm"
)

type CourseRepository interface {
	FindByName(ctx context.Context, name string) (*models.Course, error)
}

type gormCourseRepository struct {
	db *gorm.DB
}

func NewGormCourseRepository(db *gorm.DB) CourseRepository {
	return &gormCourseRepository{db: db}
}

func (r *gormCourseRepository) FindByName(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find course %q: %w", name, err)
	}
	return &course, nil
}
