package models

// Language is the UI label language preference.
type Language string

const (
	LanguageEN Language = "en"
	LanguageKH Language = "kh"
)

// DayNamesEN and DayNamesKH are indexed by DaySchedule.DayOfWeek (0 = Monday).
var (
	DayNamesEN = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	DayNamesKH = []string{"ចន្ទ", "អង្គារ", "ពុធ", "ព្រហស្បតិ៍", "សុក្រ", "សៅរ៍", "អាទិត្យ"}
)

// DayName returns the display name for a weekday index in the given language.
// Out-of-range indexes return an empty string.
func DayName(dayOfWeek int, lang Language) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	if lang == LanguageKH {
		return DayNamesKH[dayOfWeek]
	}
	return DayNamesEN[dayOfWeek]
}

// TimeSlot is one hourly scheduling unit within a day. ActivityID is nil when
// the slot is unassigned; Completed is only meaningful for assigned slots.
type TimeSlot struct {
	ID         string  `json:"id"`
	DayOfWeek  int     `json:"dayOfWeek"`
	Time       string  `json:"time"` // HH:MM format
	ActivityID *string `json:"activityId"`
	Completed  bool    `json:"completed"`
}

// DaySchedule holds one weekday's slots and its day-off flag.
type DaySchedule struct {
	DayOfWeek int        `json:"dayOfWeek"`
	IsDayOff  bool       `json:"isDayOff"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// WeekSchedule is the root scheduling aggregate: exactly one DaySchedule per
// weekday value 0..6.
type WeekSchedule struct {
	Days []DaySchedule `json:"days"`
}

// Clone returns a deep copy of the schedule.
func (w WeekSchedule) Clone() WeekSchedule {
	days := make([]DaySchedule, len(w.Days))
	for i, day := range w.Days {
		slots := make([]TimeSlot, len(day.TimeSlots))
		for j, slot := range day.TimeSlots {
			if slot.ActivityID != nil {
				id := *slot.ActivityID
				slot.ActivityID = &id
			}
			slots[j] = slot
		}
		day.TimeSlots = slots
		days[i] = day
	}
	return WeekSchedule{Days: days}
}

// FindSlot returns the slot with the given id along with its day and slot
// indexes, or ok=false if no slot matches.
func (w WeekSchedule) FindSlot(slotID string) (dayIdx, slotIdx int, ok bool) {
	for i, day := range w.Days {
		for j, slot := range day.TimeSlots {
			if slot.ID == slotID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
