package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LocationZoom       = "ZOOM"
	LocationGoogleMeet = "GOOGLE_MEET"
	LocationCustom     = "CUSTOM"
)

type EventType struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"not null" json:"user_id"`

	Name            string  `gorm:"size:255;not null" json:"name"`
	Description     *string `gorm:"type:text" json:"description"`
	DurationMinutes int     `gorm:"not null;default:30" json:"duration_minutes"`

	LocationType    string  `gorm:"size:20;not null;default:'CUSTOM'" json:"location_type"`
	LocationDetails *string `gorm:"size:255" json:"location_details"`

	BufferBefore int `gorm:"not null;default:0" json:"buffer_before"`
	BufferAfter  int `gorm:"not null;default:0" json:"buffer_after"`

	Active bool   `gorm:"not null;default:true" json:"active"`
	Color  string `gorm:"size:10;default:'#3B82F6'" json:"color"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *EventType) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
