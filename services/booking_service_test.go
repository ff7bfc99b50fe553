package services

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/schedulrhq/schedulr/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and serializes
	// transactions the way the postgres row lock does in production.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.AvailabilityRule{}, &models.EventType{}, &models.Booking{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedHost(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	host := models.User{
		Name:     "Test Host",
		Email:    username + "@example.com",
		Username: username,
		Password: "x",
		Role:     "USER",
		IsActive: true,
	}
	if err := db.Create(&host).Error; err != nil {
		t.Fatalf("failed to seed host: %v", err)
	}
	return host
}

func seedEventType(t *testing.T, db *gorm.DB, host models.User, duration int) models.EventType {
	t.Helper()
	et := models.EventType{
		UserID:          host.ID,
		Name:            "Intro Call",
		DurationMinutes: duration,
		LocationType:    models.LocationCustom,
		Active:          true,
	}
	if err := db.Create(&et).Error; err != nil {
		t.Fatalf("failed to seed event type: %v", err)
	}
	return et
}

var (
	testNow   = time.Date(2030, 5, 20, 8, 0, 0, 0, time.UTC)
	slotStart = time.Date(2030, 5, 20, 10, 0, 0, 0, time.UTC)
)

func guestInput(eventTypeID uuid.UUID, start time.Time) CreateBookingInput {
	return CreateBookingInput{
		EventTypeID: eventTypeID,
		GuestName:   "Grace Guest",
		GuestEmail:  "grace@example.com",
		StartTime:   start,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("books an open slot and snapshots the duration", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		et := seedEventType(t, db, host, 30)

		booking, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != models.BookingStatusBooked {
			t.Errorf("expected status BOOKED, got %s", booking.Status)
		}
		if !booking.EndTime.Equal(slotStart.Add(30 * time.Minute)) {
			t.Errorf("expected end time %v, got %v", slotStart.Add(30*time.Minute), booking.EndTime)
		}

		// Later duration edits must not move existing bookings.
		et.DurationMinutes = 60
		if err := db.Save(&et).Error; err != nil {
			t.Fatalf("failed to update event type: %v", err)
		}
		var stored models.Booking
		if err := db.First(&stored, "id = ?", booking.ID).Error; err != nil {
			t.Fatalf("failed to reload booking: %v", err)
		}
		if !stored.EndTime.Equal(slotStart.Add(30 * time.Minute)) {
			t.Errorf("duration edit changed a stored booking end to %v", stored.EndTime)
		}
	})

	t.Run("rejects overlapping windows but allows touching ones", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		et := seedEventType(t, db, host, 30)

		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		_, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart.Add(15*time.Minute)), testNow)
		if !errors.Is(err, ErrSlotTaken) {
			t.Errorf("expected ErrSlotTaken for overlapping window, got %v", err)
		}

		// [10:30, 11:00) touches [10:00, 10:30) and must be accepted.
		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart.Add(30*time.Minute)), testNow); err != nil {
			t.Errorf("touching window should be bookable, got %v", err)
		}
	})

	t.Run("buffers are not enforced at commit time", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		et := seedEventType(t, db, host, 30)
		et.BufferBefore = 10
		et.BufferAfter = 10
		if err := db.Save(&et).Error; err != nil {
			t.Fatalf("failed to update event type: %v", err)
		}

		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		// The listing would hide this slot (it sits inside the buffer),
		// but the commit-time guard checks raw overlap only.
		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart.Add(30*time.Minute)), testNow); err != nil {
			t.Errorf("expected raw-overlap guard to accept the adjacent window, got %v", err)
		}
	})

	t.Run("cancelled bookings free their window", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		et := seedEventType(t, db, host, 30)

		booking, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow)
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}
		if _, err := CancelBooking(db, host.ID, booking.ID, nil); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow); err != nil {
			t.Errorf("cancelled window should be bookable again, got %v", err)
		}
	})

	t.Run("validates host, event type and start time", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		other := seedHost(t, db, "bob")
		et := seedEventType(t, db, host, 30)
		otherET := seedEventType(t, db, other, 30)

		if _, err := CreateBooking(db, "nobody", guestInput(et.ID, slotStart), testNow); !errors.Is(err, ErrHostNotFound) {
			t.Errorf("expected ErrHostNotFound, got %v", err)
		}
		if _, err := CreateBooking(db, "alice", guestInput(uuid.New(), slotStart), testNow); !errors.Is(err, ErrEventTypeNotFound) {
			t.Errorf("expected ErrEventTypeNotFound, got %v", err)
		}
		if _, err := CreateBooking(db, "alice", guestInput(otherET.ID, slotStart), testNow); !errors.Is(err, ErrEventTypeMismatch) {
			t.Errorf("expected ErrEventTypeMismatch, got %v", err)
		}

		if _, err := CreateBooking(db, "alice", guestInput(et.ID, testNow), testNow); !errors.Is(err, ErrPastStartTime) {
			t.Errorf("expected a slot starting exactly now to be rejected, got %v", err)
		}
		if _, err := CreateBooking(db, "alice", guestInput(et.ID, testNow.Add(-time.Hour)), testNow); !errors.Is(err, ErrPastStartTime) {
			t.Errorf("expected ErrPastStartTime, got %v", err)
		}

		et.Active = false
		if err := db.Save(&et).Error; err != nil {
			t.Fatalf("failed to deactivate event type: %v", err)
		}
		if _, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow); !errors.Is(err, ErrEventTypeInactive) {
			t.Errorf("expected ErrEventTypeInactive, got %v", err)
		}
	})
}

func TestConcurrentBookingRace(t *testing.T) {
	db := setupTestDB(t)
	host := seedHost(t, db, "alice")
	et := seedEventType(t, db, host, 30)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner and one conflict, got %d successes and %d conflicts", successes, conflicts)
	}

	var count int64
	db.Model(&models.Booking{}).
		Where("host_id = ? AND status = ?", host.ID, models.BookingStatusBooked).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one BOOKED row after the race, found %d", count)
	}
}

func TestCancelBooking(t *testing.T) {
	t.Run("cancelling twice is rejected and changes nothing", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		et := seedEventType(t, db, host, 30)

		booking, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow)
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}

		reason := "guest asked"
		cancelled, err := CancelBooking(db, host.ID, booking.ID, &reason)
		if err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if cancelled.Status != models.BookingStatusCancelled {
			t.Errorf("expected status CANCELLED, got %s", cancelled.Status)
		}

		if _, err := CancelBooking(db, host.ID, booking.ID, nil); !errors.Is(err, ErrAlreadyCancelled) {
			t.Errorf("expected ErrAlreadyCancelled, got %v", err)
		}

		var stored models.Booking
		if err := db.First(&stored, "id = ?", booking.ID).Error; err != nil {
			t.Fatalf("failed to reload booking: %v", err)
		}
		if stored.Status != models.BookingStatusCancelled || stored.CancellationReason == nil || *stored.CancellationReason != reason {
			t.Errorf("second cancel mutated state: %+v", stored)
		}
	})

	t.Run("only the owning host may cancel", func(t *testing.T) {
		db := setupTestDB(t)
		host := seedHost(t, db, "alice")
		other := seedHost(t, db, "bob")
		et := seedEventType(t, db, host, 30)

		booking, err := CreateBooking(db, "alice", guestInput(et.ID, slotStart), testNow)
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}

		if _, err := CancelBooking(db, other.ID, booking.ID, nil); !errors.Is(err, ErrNotYourBooking) {
			t.Errorf("expected ErrNotYourBooking, got %v", err)
		}
		if _, err := CancelBooking(db, host.ID, uuid.New(), nil); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("expected ErrBookingNotFound, got %v", err)
		}
	})
}

func TestMeetingLink(t *testing.T) {
	t.Run("zoom links carry the provider prefix", func(t *testing.T) {
		et := models.EventType{LocationType: models.LocationZoom}
		if link := MeetingLink(et); !strings.HasPrefix(link, "https://zoom.us/j/") {
			t.Errorf("unexpected zoom link: %s", link)
		}
	})

	t.Run("google meet links use a generated room code", func(t *testing.T) {
		et := models.EventType{LocationType: models.LocationGoogleMeet}
		link := MeetingLink(et)
		matched, err := regexp.MatchString(`^https://meet\.google\.com/[a-z]{4}-[a-z]{4}-[a-z]{4}$`, link)
		if err != nil {
			t.Fatalf("bad pattern: %v", err)
		}
		if !matched {
			t.Errorf("unexpected meet link: %s", link)
		}
	})

	t.Run("custom locations pass their detail through", func(t *testing.T) {
		detail := "Room 4, Main Street 12"
		et := models.EventType{LocationType: models.LocationCustom, LocationDetails: &detail}
		if link := MeetingLink(et); link != detail {
			t.Errorf("expected %q, got %q", detail, link)
		}

		empty := models.EventType{LocationType: models.LocationCustom}
		if link := MeetingLink(empty); link != "" {
			t.Errorf("expected empty link, got %q", link)
		}
	})
}
