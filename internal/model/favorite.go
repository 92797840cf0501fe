package model

import "time"

// Favorite marks a property as bookmarked by a user. A pair is stored at most once.
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_property"`
	PropertyID uint      `json:"property_id" gorm:"not null;uniqueIndex:idx_favorites_user_property;index"`
	CreatedAt  time.Time `json:"created_at"`
}
