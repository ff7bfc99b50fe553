package services

import (
	"fmt"
	"time"

	"github.com/schedulrhq/schedulr/models"
)

// TimeSlot is a derived candidate booking window. It is regenerated on every
// query and never persisted.
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// ParseClock converts an "HH:MM" rule time into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// NormalizeClock validates a rule time and returns it in canonical "HH:MM"
// form, the shape the rule columns store.
func NormalizeClock(s string) (string, error) {
	d, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60), nil
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GenerateSlots expands a host's weekly rules into concrete candidate slots
// for every day in [startDate, endDate], inclusive.
//
// For each day with an available rule, candidates start at the rule's start
// time and advance by duration + bufferAfter while a full slot still fits in
// the window. Candidates not strictly after now are dropped. Each emitted
// slot carries an availability flag computed against the BOOKED bookings:
// a slot is unavailable when its buffer-expanded window
// [start - bufferBefore, end + bufferAfter) overlaps a booking. Unavailable
// slots are emitted too; callers listing open times filter on the flag.
func GenerateSlots(rules []models.AvailabilityRule, bookings []models.Booking, eventType models.EventType, startDate, endDate, now time.Time) []TimeSlot {
	duration := time.Duration(eventType.DurationMinutes) * time.Minute
	if duration <= 0 {
		return nil
	}
	bufferBefore := time.Duration(eventType.BufferBefore) * time.Minute
	bufferAfter := time.Duration(eventType.BufferAfter) * time.Minute

	byDay := make(map[Weekday]models.AvailabilityRule, len(rules))
	for _, r := range rules {
		if !r.IsAvailable {
			continue
		}
		day, err := ParseWeekday(r.DayOfWeek)
		if err != nil {
			continue
		}
		if _, exists := byDay[day]; !exists {
			byDay[day] = r
		}
	}

	var slots []TimeSlot
	for day := dateOnly(startDate); !day.After(dateOnly(endDate)); day = day.AddDate(0, 0, 1) {
		rule, ok := byDay[WeekdayOf(day)]
		if !ok {
			continue
		}

		// Malformed rule times simply produce no slots for the day.
		windowStart, err := ParseClock(rule.StartTime)
		if err != nil {
			continue
		}
		windowEnd, err := ParseClock(rule.EndTime)
		if err != nil {
			continue
		}

		for cursor := windowStart; cursor+duration <= windowEnd; cursor += duration + bufferAfter {
			slotStart := day.Add(cursor)
			slotEnd := slotStart.Add(duration)

			// Past slots are never offered; a slot starting exactly now
			// is past too.
			if !slotStart.After(now) {
				continue
			}

			effectiveStart := slotStart.Add(-bufferBefore)
			effectiveEnd := slotEnd.Add(bufferAfter)

			booked := false
			for _, b := range bookings {
				if b.Status != models.BookingStatusBooked {
					continue
				}
				if overlaps(effectiveStart, effectiveEnd, b.StartTime, b.EndTime) {
					booked = true
					break
				}
			}

			slots = append(slots, TimeSlot{
				StartTime: slotStart,
				EndTime:   slotEnd,
				Available: !booked,
			})
		}
	}

	return slots
}

// AvailableOnly drops the slots a guest cannot take.
func AvailableOnly(slots []TimeSlot) []TimeSlot {
	open := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			open = append(open, s)
		}
	}
	return open
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
