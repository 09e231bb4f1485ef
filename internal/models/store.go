// internal/models/store.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	BaseModel
	Name      string         `json:"name" gorm:"size:100;not null;index"`
	Email     *string        `json:"email,omitempty" gorm:"size:255;uniqueIndex"`
	Address   string         `json:"address" gorm:"size:400;not null"`
	Phone     string         `json:"phone,omitempty" gorm:"size:20"`
	PhotoURLs pq.StringArray `json:"photo_urls,omitempty" gorm:"type:text[]"`
	OwnerID   *uuid.UUID     `json:"owner_id" gorm:"type:uuid;index"`

	// Relationships
	Owner   *User    `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Ratings []Rating `json:"-" gorm:"foreignKey:StoreID"`

	// Derived from the rating set, never persisted.
	AverageRating float64 `json:"average_rating" gorm:"->;-:migration"`
	TotalRatings  int64   `json:"total_ratings" gorm:"->;-:migration"`
	MyRating      *Rating `json:"my_rating,omitempty" gorm:"-"`
}
