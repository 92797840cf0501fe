package model

import "time"

// PropertyImage is a photo attached to a property.
type PropertyImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"property_id" gorm:"not null;index"`
	ImagePath  string    `json:"image_path" gorm:"size:255;not null"`
	IsMain     bool      `json:"is_main" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
}
