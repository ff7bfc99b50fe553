package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusBooked    = "BOOKED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking snapshots the event type's duration at creation time: EndTime is
// fixed then and later template edits never touch existing rows. Cancellation
// is a status transition, never a delete.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	HostID      uuid.UUID `gorm:"not null;index" json:"host_id"`
	EventTypeID uuid.UUID `gorm:"not null" json:"event_type_id"`

	GuestName  string `gorm:"size:255;not null" json:"guest_name"`
	GuestEmail string `gorm:"size:255;not null" json:"guest_email"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status             string  `gorm:"size:20;not null;default:'BOOKED'" json:"status"`
	Notes              *string `gorm:"type:text" json:"notes"`
	MeetingLink        *string `gorm:"size:255" json:"meeting_link"`
	CancellationReason *string `gorm:"size:255" json:"cancellation_reason"`

	Host      User      `gorm:"foreignkey:HostID" json:"host,omitempty"`
	EventType EventType `gorm:"foreignkey:EventTypeID" json:"event_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
