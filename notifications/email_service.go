package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/schedulrhq/schedulr/configs"
	"github.com/schedulrhq/schedulr/database"
	"github.com/schedulrhq/schedulr/models"
)

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Emails will be logged only.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to send email via Brevo: %s", string(bodyBytes))
	}

	return nil
}

// sendAndLog delivers an email and records the attempt in email_logs.
// Failures stay here: bookings are already committed by the time any
// notification fires, so nothing is ever propagated back.
func sendAndLog(toName, toEmail, subject, htmlContent, emailType string, booking *models.Booking) {
	status := "SENT"
	var errorMessage *string

	if EmailClient == nil {
		log.Printf("[EMAIL MOCK] To: %s | Subject: %s | Type: %s", toEmail, subject, emailType)
	} else if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		status = "FAILED"
		msg := err.Error()
		errorMessage = &msg
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
	}

	entry := models.EmailLog{
		RecipientEmail: toEmail,
		Subject:        subject,
		Body:           htmlContent,
		EmailType:      emailType,
		Status:         status,
		ErrorMessage:   errorMessage,
	}
	if booking != nil {
		id := booking.ID
		entry.BookingID = &id
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to record email log: %v", err)
	}
}

const timeLayout = "Mon, 02 Jan 2006 15:04"

// SendBookingConfirmationToGuest expects booking.Host and booking.EventType
// to be populated.
func SendBookingConfirmationToGuest(booking *models.Booking) {
	subject := "Meeting Confirmed: " + booking.EventType.Name
	link := ""
	if booking.MeetingLink != nil {
		link = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Meeting</a></p>", *booking.MeetingLink)
	}
	body := fmt.Sprintf(
		"<h1>Meeting Confirmed</h1><p>Hi %s,</p><p>Your meeting <b>%s</b> with %s is confirmed for %s - %s.</p>%s",
		booking.GuestName,
		booking.EventType.Name,
		booking.Host.Name,
		booking.StartTime.Format(timeLayout),
		booking.EndTime.Format("15:04"),
		link,
	)
	sendAndLog(booking.GuestName, booking.GuestEmail, subject, body, "BOOKING_CONFIRMATION_GUEST", booking)
}

func SendBookingConfirmationToHost(booking *models.Booking) {
	subject := "New Meeting Booked: " + booking.EventType.Name
	body := fmt.Sprintf(
		"<h1>New Booking</h1><p>Hi %s,</p><p>%s (%s) booked <b>%s</b> for %s - %s.</p>",
		booking.Host.Name,
		booking.GuestName,
		booking.GuestEmail,
		booking.EventType.Name,
		booking.StartTime.Format(timeLayout),
		booking.EndTime.Format("15:04"),
	)
	sendAndLog(booking.Host.Name, booking.Host.Email, subject, body, "BOOKING_CONFIRMATION_HOST", booking)
}

// SendCancellationEmails notifies guest and host about a cancellation.
func SendCancellationEmails(booking *models.Booking) {
	subject := "Meeting Cancelled: " + booking.EventType.Name
	reason := ""
	if booking.CancellationReason != nil && *booking.CancellationReason != "" {
		reason = fmt.Sprintf("<p>Reason: %s</p>", *booking.CancellationReason)
	}
	body := fmt.Sprintf(
		"<h1>Meeting Cancelled</h1><p>The meeting scheduled for %s has been cancelled.</p>%s",
		booking.StartTime.Format(timeLayout),
		reason,
	)
	sendAndLog(booking.GuestName, booking.GuestEmail, subject, body, "BOOKING_CANCELLATION", booking)
	sendAndLog(booking.Host.Name, booking.Host.Email, subject, body, "BOOKING_CANCELLATION", booking)
}

// SendBookingReminder goes to both parties an hour before the meeting.
func SendBookingReminder(booking *models.Booking) {
	subject := "Reminder: Your Meeting Starts in 1 Hour"
	link := ""
	if booking.MeetingLink != nil {
		link = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Meeting</a></p>", *booking.MeetingLink)
	}
	body := fmt.Sprintf(
		"<h1>Meeting Reminder</h1><p>Your meeting <b>%s</b> starts at %s.</p>%s",
		booking.EventType.Name,
		booking.StartTime.Format(time.Kitchen),
		link,
	)
	sendAndLog(booking.GuestName, booking.GuestEmail, subject, body, "BOOKING_REMINDER", booking)
	sendAndLog(booking.Host.Name, booking.Host.Email, subject, body, "BOOKING_REMINDER", booking)
}
