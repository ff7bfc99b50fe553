package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityRule is one weekly recurring window for a host. At most one
// rule exists per (user, day of week); saving a schedule replaces the whole set.
type AvailabilityRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex:idx_rules_user_day" json:"-"`
	DayOfWeek string    `gorm:"size:10;not null;uniqueIndex:idx_rules_user_day" json:"day_of_week"`

	// Times of day as "HH:MM" in the host's local clock.
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	IsAvailable bool `gorm:"not null;default:true" json:"is_available"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (r *AvailabilityRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
