// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:60;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Address      string     `json:"address" gorm:"size:400"`
	AvatarURL    string     `json:"avatar_url,omitempty" gorm:"size:512"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;index"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Stores  []Store  `json:"stores,omitempty" gorm:"foreignKey:OwnerID"`
	Ratings []Rating `json:"ratings,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
