package jobs

import (
	"log"
	"time"

	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
	"github.com/schedulrhq/schedulr/notifications"
)

// SendMeetingReminders runs every five minutes and emails both parties of
// any meeting starting in roughly an hour. The 5-minute window matches the
// cron cadence so each booking is picked up once.
func SendMeetingReminders() {
	log.Println("Running job: SendMeetingReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Host").
		Preload("EventType").
		Where("status = ? AND start_time >= ? AND start_time < ?",
			models.BookingStatusBooked, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming meetings: %v", err)
		return
	}

	for i := range upcomingBookings {
		booking := upcomingBookings[i]
		log.Printf("Sending reminder for booking ID: %s", booking.ID)
		go notifications.SendBookingReminder(&booking)
	}
}
