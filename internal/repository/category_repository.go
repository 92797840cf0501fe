package repository

import (
	"context"

	"gorm.io/gorm"

	"realestate/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindOrCreate(ctx context.Context, name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindOrCreate returns the category called name, creating it when missing.
func (r *categoryRepository) FindOrCreate(ctx context.Context, name string) (*model.Category, error) {
	category := model.Category{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
