// internal/models/rating.go
package models

import (
	"github.com/google/uuid"
)

// A user has at most one rating per store; the pair index backs the
// upsert so concurrent submissions cannot create duplicates.
type Rating struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_store;index"`
	StoreID uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_store;index"`
	Rating  int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string    `json:"comment,omitempty" gorm:"size:500"`

	// Relationships
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Store *Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}
