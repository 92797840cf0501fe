package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realestate/internal/model"
)

// FavoriteRepository defines persistence operations for bookmarks.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, propertyID uint) error
	Remove(ctx context.Context, userID, propertyID uint) error
	Exists(ctx context.Context, userID, propertyID uint) (bool, error)
	ListProperties(ctx context.Context, userID uint) ([]model.Property, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add inserts the pair; an existing pair is left untouched.
func (r *favoriteRepository) Add(ctx context.Context, userID, propertyID uint) error {
	favorite := model.Favorite{UserID: userID, PropertyID: propertyID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite).Error
}

// Remove deletes the pair. Removing a missing pair is not an error.
func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&model.Favorite{}).Error
}

// Exists reports whether the user has bookmarked the property.
func (r *favoriteRepository) Exists(ctx context.Context, userID, propertyID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListProperties returns the user's bookmarked available properties, most recent bookmark first.
func (r *favoriteRepository) ListProperties(ctx context.Context, userID uint) ([]model.Property, error) {
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ? AND properties.status = ?", userID, model.PropertyStatusAvailable).
		Preload("Images", "is_main = ?", true).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}
