package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schedulrhq/schedulr/models"
)

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func rule(day, start, end string, available bool) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:          uuid.New(),
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
}

func bookedAt(start, end time.Time) models.Booking {
	return models.Booking{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
		Status:    models.BookingStatusBooked,
	}
}

func eventType(duration, bufferBefore, bufferAfter int) models.EventType {
	return models.EventType{
		ID:              uuid.New(),
		DurationMinutes: duration,
		BufferBefore:    bufferBefore,
		BufferAfter:     bufferAfter,
		Active:          true,
	}
}

func TestGenerateSlots(t *testing.T) {
	dayBefore := monday.Add(-12 * time.Hour)

	t.Run("full working day yields back-to-back slots", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday, dayBefore)

		if len(slots) != 16 {
			t.Fatalf("expected 16 slots, got %d", len(slots))
		}
		first := monday.Add(9 * time.Hour)
		for i, s := range slots {
			want := first.Add(time.Duration(i) * 30 * time.Minute)
			if !s.StartTime.Equal(want) {
				t.Errorf("slot %d: expected start %v, got %v", i, want, s.StartTime)
			}
			if !s.EndTime.Equal(want.Add(30 * time.Minute)) {
				t.Errorf("slot %d: expected 30m duration, got end %v", i, s.EndTime)
			}
			if !s.Available {
				t.Errorf("slot %d: expected available", i)
			}
		}
	})

	t.Run("buffer after stretches the spacing but not the slot", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 10), monday, monday, dayBefore)

		if len(slots) != 12 {
			t.Fatalf("expected 12 slots, got %d", len(slots))
		}
		for i := 1; i < len(slots); i++ {
			gap := slots[i].StartTime.Sub(slots[i-1].StartTime)
			if gap != 40*time.Minute {
				t.Errorf("slot %d: expected 40m spacing, got %v", i, gap)
			}
		}
		last := slots[len(slots)-1]
		if last.StartTime.After(monday.Add(16*time.Hour + 30*time.Minute)) {
			t.Errorf("last slot %v would not fit in the window", last.StartTime)
		}
		if got := last.EndTime.Sub(last.StartTime); got != 30*time.Minute {
			t.Errorf("expected 30m slots, got %v", got)
		}
	})

	t.Run("buffer before never affects the cursor advance", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", true)}
		plain := GenerateSlots(rules, nil, eventType(30, 0, 10), monday, monday, dayBefore)
		padded := GenerateSlots(rules, nil, eventType(30, 15, 10), monday, monday, dayBefore)

		if len(plain) != len(padded) {
			t.Fatalf("buffer before changed slot count: %d vs %d", len(plain), len(padded))
		}
		for i := range plain {
			if !plain[i].StartTime.Equal(padded[i].StartTime) {
				t.Errorf("slot %d: buffer before moved start from %v to %v", i, plain[i].StartTime, padded[i].StartTime)
			}
		}
	})

	t.Run("day without a rule yields nothing", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), tuesday, tuesday, dayBefore)
		if len(slots) != 0 {
			t.Errorf("expected no slots for a day without a rule, got %d", len(slots))
		}
	})

	t.Run("unavailable rule yields nothing", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", false)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday, dayBefore)
		if len(slots) != 0 {
			t.Errorf("expected no slots for an unavailable day, got %d", len(slots))
		}
	})

	t.Run("window shorter than the duration yields nothing", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "09:20", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday, dayBefore)
		if len(slots) != 0 {
			t.Errorf("expected no slots, got %d", len(slots))
		}
	})

	t.Run("malformed rule times yield nothing", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "9am", "17:00", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday, dayBefore)
		if len(slots) != 0 {
			t.Errorf("expected no slots for malformed times, got %d", len(slots))
		}
	})

	t.Run("slots not strictly after now are dropped", func(t *testing.T) {
		now := monday.Add(10 * time.Hour) // 10:00
		rules := []models.AvailabilityRule{rule("MONDAY", "09:00", "17:00", true)}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday, now)

		if len(slots) != 13 {
			t.Fatalf("expected 13 remaining slots, got %d", len(slots))
		}
		for _, s := range slots {
			if !s.StartTime.After(now) {
				t.Errorf("slot at %v should have been dropped, now is %v", s.StartTime, now)
			}
		}
		// The 10:00 candidate starts exactly at now and is excluded too.
		if !slots[0].StartTime.Equal(monday.Add(10*time.Hour + 30*time.Minute)) {
			t.Errorf("expected first slot at 10:30, got %v", slots[0].StartTime)
		}
	})

	t.Run("booking overlapping the buffered window marks the slot", func(t *testing.T) {
		// One candidate: [10:00, 10:30) with effective window [09:55, 10:35).
		rules := []models.AvailabilityRule{rule("MONDAY", "10:00", "10:30", true)}
		et := eventType(30, 5, 5)

		bookings := []models.Booking{bookedAt(monday.Add(9*time.Hour+50*time.Minute), monday.Add(10*time.Hour+5*time.Minute))}
		slots := GenerateSlots(rules, bookings, et, monday, monday, dayBefore)
		if len(slots) != 1 {
			t.Fatalf("expected the slot to be emitted, got %d slots", len(slots))
		}
		if slots[0].Available {
			t.Error("booking overlapping the effective start should mark the slot unavailable")
		}

		bookings = []models.Booking{bookedAt(monday.Add(10*time.Hour+35*time.Minute), monday.Add(11*time.Hour))}
		slots = GenerateSlots(rules, bookings, et, monday, monday, dayBefore)
		if len(slots) != 1 {
			t.Fatalf("expected one slot, got %d", len(slots))
		}
		if !slots[0].Available {
			t.Error("booking touching the effective end must not mark the slot unavailable")
		}
	})

	t.Run("cancelled bookings never block slots", func(t *testing.T) {
		rules := []models.AvailabilityRule{rule("MONDAY", "10:00", "10:30", true)}
		cancelled := bookedAt(monday.Add(10*time.Hour), monday.Add(10*time.Hour+30*time.Minute))
		cancelled.Status = models.BookingStatusCancelled

		slots := GenerateSlots(rules, []models.Booking{cancelled}, eventType(30, 0, 0), monday, monday, dayBefore)
		if len(slots) != 1 || !slots[0].Available {
			t.Errorf("cancelled booking should leave the slot open: %+v", slots)
		}
	})

	t.Run("slots span days in date then time order", func(t *testing.T) {
		rules := []models.AvailabilityRule{
			rule("MONDAY", "09:00", "10:00", true),
			rule("TUESDAY", "09:00", "10:00", true),
		}
		slots := GenerateSlots(rules, nil, eventType(30, 0, 0), monday, monday.AddDate(0, 0, 1), dayBefore)

		if len(slots) != 4 {
			t.Fatalf("expected 4 slots over two days, got %d", len(slots))
		}
		for i := 1; i < len(slots); i++ {
			if !slots[i].StartTime.After(slots[i-1].StartTime) {
				t.Errorf("slots out of order at index %d: %v then %v", i, slots[i-1].StartTime, slots[i].StartTime)
			}
		}
	})
}

func TestAvailableOnly(t *testing.T) {
	slots := []TimeSlot{
		{StartTime: monday, Available: true},
		{StartTime: monday.Add(time.Hour), Available: false},
		{StartTime: monday.Add(2 * time.Hour), Available: true},
	}
	open := AvailableOnly(slots)
	if len(open) != 2 {
		t.Fatalf("expected 2 open slots, got %d", len(open))
	}
	for _, s := range open {
		if !s.Available {
			t.Errorf("unavailable slot leaked through: %+v", s)
		}
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 9*time.Hour+30*time.Minute {
		t.Errorf("expected 9h30m, got %v", d)
	}

	// Seconds from a DB time column are tolerated.
	if _, err := ParseClock("09:30:00"); err != nil {
		t.Errorf("expected HH:MM:SS to parse, got %v", err)
	}

	for _, bad := range []string{"", "9am", "25:00", "09-30"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	// Stored rule times must always be 5 characters; inputs carrying seconds
	// or missing the leading zero are canonicalized, not passed through.
	cases := map[string]string{
		"09:30":    "09:30",
		"09:30:00": "09:30",
		"9:30":     "09:30",
		"00:00":    "00:00",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		if err != nil {
			t.Errorf("NormalizeClock(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "9am", "25:00"} {
		if _, err := NormalizeClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
