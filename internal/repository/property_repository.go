package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"realestate/internal/model"
)

// PropertyFilter narrows the public listing.
type PropertyFilter struct {
	City       string
	Type       model.PropertyType
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Limit      int
	Offset     int
}

// PropertyRepository defines property persistence operations.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	AddImages(ctx context.Context, images []model.PropertyImage) error
	FindAvailable(ctx context.Context, id uint) (*model.Property, error)
	Images(ctx context.Context, propertyID uint) ([]model.PropertyImage, error)
	SimilarCandidateIDs(ctx context.Context, property *model.Property) ([]uint, error)
	FindAvailableWithMainImage(ctx context.Context, ids []uint) ([]model.Property, error)
	ListAvailable(ctx context.Context, filter PropertyFilter) ([]model.Property, int64, error)
	IncrementViews(ctx context.Context, id uint, n int64) error
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create creates a new property.
func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// AddImages attaches images to their properties. A property has at most one
// primary image: the first image flagged IsMain replaces any stored primary,
// and later flags for the same property in images are cleared.
func (r *propertyRepository) AddImages(ctx context.Context, images []model.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}

	var replaced []uint
	hasMain := make(map[uint]bool)
	for i := range images {
		if !images[i].IsMain {
			continue
		}
		if hasMain[images[i].PropertyID] {
			images[i].IsMain = false
			continue
		}
		hasMain[images[i].PropertyID] = true
		replaced = append(replaced, images[i].PropertyID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(replaced) > 0 {
			err := tx.Model(&model.PropertyImage{}).
				Where("property_id IN ? AND is_main = ?", replaced, true).
				Update("is_main", false).Error
			if err != nil {
				return err
			}
		}
		return tx.CreateInBatches(images, 100).Error
	})
}

// FindAvailable loads a publicly visible property with its owner and category.
// Missing and unavailable rows both yield gorm.ErrRecordNotFound.
func (r *propertyRepository) FindAvailable(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Where("id = ? AND status = ?", id, model.PropertyStatusAvailable).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Images returns the property's images, primary first, then in insertion order.
func (r *propertyRepository) Images(ctx context.Context, propertyID uint) ([]model.PropertyImage, error) {
	var images []model.PropertyImage
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("is_main DESC").
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// SimilarCandidateIDs returns ids of other available properties sharing the
// city, the type or the category of property.
func (r *propertyRepository) SimilarCandidateIDs(ctx context.Context, property *model.Property) ([]uint, error) {
	match := "city = ? OR type = ?"
	args := []interface{}{property.City, property.Type}
	if property.CategoryID != nil {
		match += " OR category_id = ?"
		args = append(args, *property.CategoryID)
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Property{}).
		Where("status = ? AND id <> ?", model.PropertyStatusAvailable, property.ID).
		Where("("+match+")", args...).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAvailableWithMainImage loads the available properties among ids, each
// with its primary image if it has one.
func (r *propertyRepository) FindAvailableWithMainImage(ctx context.Context, ids []uint) ([]model.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Preload("Images", "is_main = ?", true).
		Where("id IN ? AND status = ?", ids, model.PropertyStatusAvailable).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// ListAvailable returns one page of available properties, newest first, and the total match count.
func (r *propertyRepository) ListAvailable(ctx context.Context, filter PropertyFilter) ([]model.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Property{}).
		Where("status = ?", model.PropertyStatusAvailable)

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	// safe for reuse by both the count and the page query
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []model.Property
	err := query.
		Preload("Images", "is_main = ?", true).
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// IncrementViews adds n to the view counter without touching updated_at.
func (r *propertyRepository) IncrementViews(ctx context.Context, id uint, n int64) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", n)).Error
}
