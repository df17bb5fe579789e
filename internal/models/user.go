package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/types"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Username     string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         types.Role `gorm:"size:20;not null;default:'member'" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Recipes   []Recipe   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Ratings   []Rating   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Principal projects the stored user onto the identity handed to services.
func (u *User) Principal() types.Principal {
	return types.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
