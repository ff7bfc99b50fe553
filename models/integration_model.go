package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Integration stores calendar/video provider credentials. Token exchange
// itself happens outside this service.
type Integration struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"not null;uniqueIndex:idx_integrations_user_provider" json:"-"`
	Provider string    `gorm:"size:50;not null;uniqueIndex:idx_integrations_user_provider" json:"provider"`

	AccessToken  *string `gorm:"size:512" json:"-"`
	RefreshToken *string `gorm:"size:512" json:"-"`
	Active       bool    `gorm:"default:false" json:"active"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Integration) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
