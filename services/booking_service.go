package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schedulrhq/schedulr/models"
	"github.com/schedulrhq/schedulr/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHostNotFound      = errors.New("host not found")
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrBookingNotFound   = errors.New("booking not found")

	ErrEventTypeMismatch = errors.New("event type does not belong to this host")
	ErrEventTypeInactive = errors.New("this event type is not currently available")
	ErrPastStartTime     = errors.New("cannot book a slot in the past")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrNotYourBooking    = errors.New("you can only cancel your own bookings")

	ErrSlotTaken = errors.New("this time slot is no longer available, please choose another")
)

type CreateBookingInput struct {
	EventTypeID uuid.UUID
	GuestName   string
	GuestEmail  string
	StartTime   time.Time
	Notes       *string
}

// HasOverlap reports whether a BOOKED booking for the host intersects the
// half-open window [start, end). Buffers are deliberately not applied here:
// they gate what the slot listing shows, not what a commit accepts.
func HasOverlap(tx *gorm.DB, hostID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("host_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			hostID, models.BookingStatusBooked, end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BookedBetween loads the BOOKED bookings whose start falls in [from, to],
// the read the slot generator works from.
func BookedBetween(db *gorm.DB, hostID uuid.UUID, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.
		Where("host_id = ? AND status = ? AND start_time >= ? AND start_time <= ?",
			hostID, models.BookingStatusBooked, from, to).
		Find(&bookings).Error
	return bookings, err
}

// reserveSlot is the admission-control step. It must run inside a
// transaction: the host row is locked FOR UPDATE so that two concurrent
// requests for overlapping windows on the same host serialize, and at most
// one survives the overlap check.
func reserveSlot(tx *gorm.DB, booking *models.Booking) error {
	var host models.User
	if err := lockForUpdate(tx).First(&host, "id = ?", booking.HostID).Error; err != nil {
		return err
	}

	taken, err := HasOverlap(tx, booking.HostID, booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	return tx.Create(booking).Error
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	// sqlite has no row locks; its single writer serializes transactions.
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateBooking runs the public booking workflow: resolve host and event
// type, validate the request, derive the meeting link, and commit through
// the conflict guard. The end time snapshots the event type's duration.
func CreateBooking(db *gorm.DB, username string, input CreateBookingInput, now time.Time) (*models.Booking, error) {
	var host models.User
	if err := db.Where("username = ?", username).First(&host).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}

	var eventType models.EventType
	if err := db.First(&eventType, "id = ?", input.EventTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}

	if eventType.UserID != host.ID {
		return nil, ErrEventTypeMismatch
	}
	if !eventType.Active {
		return nil, ErrEventTypeInactive
	}
	if !input.StartTime.After(now) {
		return nil, ErrPastStartTime
	}

	meetingLink := MeetingLink(eventType)
	booking := models.Booking{
		HostID:      host.ID,
		EventTypeID: eventType.ID,
		GuestName:   input.GuestName,
		GuestEmail:  input.GuestEmail,
		StartTime:   input.StartTime,
		EndTime:     input.StartTime.Add(time.Duration(eventType.DurationMinutes) * time.Minute),
		Status:      models.BookingStatusBooked,
		Notes:       input.Notes,
	}
	if meetingLink != "" {
		booking.MeetingLink = &meetingLink
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return reserveSlot(tx, &booking)
	})
	if err != nil {
		return nil, err
	}

	booking.Host = host
	booking.EventType = eventType
	return &booking, nil
}

// CancelBooking transitions a host's booking to CANCELLED. The row is kept
// for the audit trail; cancelling twice is an invalid request.
func CancelBooking(db *gorm.DB, hostID, bookingID uuid.UUID, reason *string) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Host").Preload("EventType").First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.HostID != hostID {
		return nil, ErrNotYourBooking
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancellationReason = reason
	if err := db.Save(&booking).Error; err != nil {
		return nil, err
	}

	return &booking, nil
}

// MeetingLink derives the join link from the event type's location. The
// value carries no invariants; CUSTOM locations pass their detail through.
func MeetingLink(eventType models.EventType) string {
	switch eventType.LocationType {
	case models.LocationZoom:
		return fmt.Sprintf("https://zoom.us/j/%d", time.Now().UnixMilli())
	case models.LocationGoogleMeet:
		return "https://meet.google.com/" + utils.GenerateMeetCode()
	default:
		if eventType.LocationDetails != nil {
			return *eventType.LocationDetails
		}
		return ""
	}
}
