package models

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// SlotsPerDay is the fixed number of activity slots in every day schedule.
	SlotsPerDay = 8

	// DefaultStartHour is the workday start hour callers pass when they have no
	// preference. GenerateTimeSlots treats it as "pick one of the evening starts".
	DefaultStartHour = 18
)

// GenerateTimeSlots produces SlotsPerDay consecutive hourly slots for one day.
//
// Day-off schedules start at 9 or 10 in the morning, chosen at random. Workday
// schedules start at 18 or 19 when the caller used DefaultStartHour; any other
// startHour is used verbatim. Slot IDs embed the day index, slot index, and a
// generation timestamp so regenerated batches never reuse old IDs.
func GenerateTimeSlots(rng *rand.Rand, dayOfWeek int, isDayOff bool, startHour int) []TimeSlot {
	actualStartHour := startHour
	if isDayOff {
		actualStartHour = 9 + rng.Intn(2)
	} else if startHour == DefaultStartHour {
		actualStartHour = 18 + rng.Intn(2)
	}

	timestamp := time.Now().UnixNano()
	slots := make([]TimeSlot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		slots = append(slots, TimeSlot{
			ID:         fmt.Sprintf("slot-%d-%d-%d", dayOfWeek, i, timestamp),
			DayOfWeek:  dayOfWeek,
			Time:       fmt.Sprintf("%02d:00", actualStartHour+i),
			ActivityID: nil,
			Completed:  false,
		})
	}
	return slots
}

// GenerateDefaultWeekSchedule builds a full week of workdays with fresh empty
// slots.
func GenerateDefaultWeekSchedule(rng *rand.Rand) WeekSchedule {
	days := make([]DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, DaySchedule{
			DayOfWeek: i,
			IsDayOff:  false,
			TimeSlots: GenerateTimeSlots(rng, i, false, DefaultStartHour),
		})
	}
	return WeekSchedule{Days: days}
}

// ShuffleArray returns a uniformly random permutation of the input without
// mutating it (Fisher-Yates).
func ShuffleArray[T any](rng *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
