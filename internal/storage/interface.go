package storage

import "errors"

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("key not found")

// Provider is a durable key-value store holding one JSON-encoded value per
// key. Values are opaque to the provider; callers validate before trusting
// them.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error

	// Utils
	Path() string
}

// Well-known keys written by the schedule store and the sync CLI.
const (
	KeyActivities   = "activities"
	KeyWeekSchedule = "week_schedule"
	KeyLanguage     = "schedule_language"
	KeyDataVersion  = "schedule_data_version"
	KeyAuthToken    = "auth_token"
	KeyAuthUserID   = "auth_user_id"
)
