package models

// Activity is a named task or chore that can be assigned to time slots.
type Activity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameKh string `json:"nameKh,omitempty"`
}

// DefaultActivities returns the built-in bilingual activity set used when no
// valid stored activities exist. IDs are stable across releases.
func DefaultActivities() []Activity {
	return []Activity{
		{ID: "act-1", Name: "Learn C Programming", NameKh: "រៀន C Programming"},
		{ID: "act-2", Name: "Exercise", NameKh: "លំហាត់ប្រាណ"},
		{ID: "act-3", Name: "Relax", NameKh: "សម្រាក"},
		{ID: "act-4", Name: "Post a Video", NameKh: "ផុសវីដេអូ"},
		{ID: "act-5", Name: "Wash Dishes", NameKh: "លាងចាន"},
		{ID: "act-6", Name: "Mop the Floor", NameKh: "ជូតផ្ទះ"},
		{ID: "act-7", Name: "Do Laundry", NameKh: "បោកខោអាវ"},
		{ID: "act-8", Name: "Learn from Udemy", NameKh: "រៀនពី Udemy"},
	}
}

// Label returns the activity name for the given language, falling back to the
// English name when no Khmer label is set.
func (a Activity) Label(lang Language) string {
	if lang == LanguageKH && a.NameKh != "" {
		return a.NameKh
	}
	return a.Name
}
