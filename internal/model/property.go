package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PropertyType is the kind of listing.
type PropertyType string

const (
	PropertyTypeSale   PropertyType = "sale"
	PropertyTypeRental PropertyType = "rental"
)

// Valid reports whether t is a known listing type.
func (t PropertyType) Valid() bool {
	return t == PropertyTypeSale || t == PropertyTypeRental
}

// PropertyStatus is the publication state of a listing.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusSold      PropertyStatus = "sold"
)

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusPending, PropertyStatusRented, PropertyStatusSold:
		return true
	}
	return false
}

// Property is a listing published by an owner.
type Property struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OwnerID     uint            `json:"owner_id" gorm:"not null;index"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Type        PropertyType    `json:"type" gorm:"type:varchar(20);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	Address     string          `json:"address" gorm:"size:255"`
	City        string          `json:"city" gorm:"size:100;index"`
	Country     string          `json:"country" gorm:"size:100"`
	SurfaceArea decimal.Decimal `json:"surface_area" gorm:"type:decimal(10,2)"`
	Rooms       int             `json:"rooms"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	PostalCode  string          `json:"postal_code" gorm:"size:20"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	CategoryID  *uint           `json:"category_id,omitempty" gorm:"index"`
	Status      PropertyStatus  `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	Views       int64           `json:"views" gorm:"not null;default:0"`
	Amenities   datatypes.JSON  `json:"amenities,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Owner    User            `json:"-" gorm:"foreignKey:OwnerID"`
	Category *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID"`
}

// MainImage returns the primary image if one was loaded.
func (p *Property) MainImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	return nil
}
