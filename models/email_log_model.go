package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog records every delivery attempt, including mocked ones. Delivery
// failures live here and never propagate to the booking caller.
type EmailLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecipientEmail string     `gorm:"size:255;not null" json:"recipient_email"`
	Subject        string     `gorm:"size:255;not null" json:"subject"`
	Body           string     `gorm:"type:text" json:"body"`
	EmailType      string     `gorm:"size:50" json:"email_type"`
	Status         string     `gorm:"size:20;not null;default:'SENT'" json:"status"`
	ErrorMessage   *string    `gorm:"type:text" json:"error_message"`
	BookingID      *uuid.UUID `json:"booking_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
