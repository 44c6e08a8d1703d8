// Package validation gates untrusted persisted or externally supplied JSON
// before it is allowed to replace in-memory schedule state. Checks are
// all-or-nothing: a malformed payload is rejected wholesale, never repaired
// field by field.
package validation

import "encoding/json"

// ValidateActivities reports whether raw is a JSON array of activity objects:
// {id: string, name: string, nameKh?: string}.
func ValidateActivities(raw []byte) bool {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	for _, item := range items {
		if !isString(item["id"]) || !isString(item["name"]) {
			return false
		}
		if nameKh, ok := item["nameKh"]; ok && !isString(nameKh) {
			return false
		}
	}
	return true
}

// ValidateWeekSchedule reports whether raw matches the week schedule shape:
// {days: [{dayOfWeek: 0..6, isDayOff: bool, timeSlots: [...]}]}.
func ValidateWeekSchedule(raw []byte) bool {
	var week struct {
		Days *[]map[string]json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(raw, &week); err != nil || week.Days == nil {
		return false
	}
	for _, day := range *week.Days {
		if !isWeekdayIndex(day["dayOfWeek"]) || !isBool(day["isDayOff"]) {
			return false
		}
		slotsRaw, ok := day["timeSlots"]
		if !ok {
			return false
		}
		var slots []map[string]json.RawMessage
		if err := json.Unmarshal(slotsRaw, &slots); err != nil {
			return false
		}
		for _, slot := range slots {
			if !validTimeSlot(slot) {
				return false
			}
		}
	}
	return true
}

// ValidateLanguage reports whether raw is exactly the JSON string "en" or "kh".
func ValidateLanguage(raw []byte) bool {
	var lang string
	if err := json.Unmarshal(raw, &lang); err != nil {
		return false
	}
	return lang == "en" || lang == "kh"
}

func validTimeSlot(slot map[string]json.RawMessage) bool {
	if !isString(slot["id"]) || !isWeekdayIndex(slot["dayOfWeek"]) || !isString(slot["time"]) {
		return false
	}
	activityID, ok := slot["activityId"]
	if !ok || !isStringOrNull(activityID) {
		return false
	}
	return isBool(slot["completed"])
}

func isString(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var s string
	return json.Unmarshal(raw, &s) == nil
}

func isStringOrNull(raw json.RawMessage) bool {
	var s *string
	return json.Unmarshal(raw, &s) == nil
}

func isBool(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var b bool
	return json.Unmarshal(raw, &b) == nil
}

// isWeekdayIndex accepts only integral JSON numbers in [0, 6].
func isWeekdayIndex(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n == float64(int(n)) && n >= 0 && n <= 6
}
