// Package schedule owns the authoritative in-memory activity collection and
// week schedule. All mutations go through the Store, which applies
// copy-on-write updates, persists every change through a storage.Provider,
// and recovers from missing or corrupt stored data by substituting defaults.
package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sovanreach/weekplan/internal/models"
	"github.com/sovanreach/weekplan/internal/storage"
	"github.com/sovanreach/weekplan/internal/validation"
)

// Store is the sole owner of the activity collection, week schedule, and
// language preference. Construct one per session with NewStore; there is no
// package-level instance.
//
// Mutations replace the internal snapshots rather than editing them in place,
// so values returned by the accessors stay stable after later operations.
// Persistence failures are logged and swallowed: the in-memory state remains
// authoritative for the session.
type Store struct {
	mu       sync.RWMutex
	provider storage.Provider
	logger   *zap.Logger
	rng      *rand.Rand

	activities []models.Activity
	week       models.WeekSchedule
	language   models.Language
}

// Option configures a Store during construction.
type Option func(*Store)

// WithRand injects a deterministic random source. The default is seeded from
// the clock.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) {
		s.rng = rng
	}
}

// NewStore loads activities, week schedule, and language from the provider,
// independently validating each and falling back to defaults (persisted
// immediately, so storage is self-healing) on missing keys, parse failures,
// or schema mismatches.
func NewStore(provider storage.Provider, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.activities = s.loadActivities()
	s.week = s.loadWeekSchedule()
	s.language = s.loadLanguage()
	return s
}

// defaultsVersionHash identifies the built-in default activity set. When the
// shipped defaults change between releases, stored activities derived from the
// old defaults are replaced rather than kept stale.
func defaultsVersionHash() string {
	data, _ := json.Marshal(models.DefaultActivities())
	return string(data)
}

func (s *Store) loadActivities() []models.Activity {
	currentHash := defaultsVersionHash()
	storedHash, hashErr := s.provider.Get(storage.KeyDataVersion)

	raw, err := s.provider.Get(storage.KeyActivities)
	if err != nil || hashErr != nil || string(storedHash) != currentHash {
		s.logger.Info("no stored activities or defaults changed, using default set")
		defaults := models.DefaultActivities()
		s.persistRaw(storage.KeyDataVersion, []byte(currentHash))
		s.persistActivitiesLocked(defaults)
		return defaults
	}

	if !validation.ValidateActivities(raw) {
		s.logger.Warn("stored activities failed validation, using default set")
		defaults := models.DefaultActivities()
		s.persistActivitiesLocked(defaults)
		return defaults
	}

	var activities []models.Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		s.logger.Warn("failed to decode stored activities, using default set", zap.Error(err))
		defaults := models.DefaultActivities()
		s.persistActivitiesLocked(defaults)
		return defaults
	}
	return activities
}

func (s *Store) loadWeekSchedule() models.WeekSchedule {
	raw, err := s.provider.Get(storage.KeyWeekSchedule)
	if err != nil {
		s.logger.Info("no stored week schedule, generating default")
		week := models.GenerateDefaultWeekSchedule(s.rng)
		s.persistWeekLocked(week)
		return week
	}

	if !validation.ValidateWeekSchedule(raw) {
		s.logger.Warn("stored week schedule failed validation, generating default")
		week := models.GenerateDefaultWeekSchedule(s.rng)
		s.persistWeekLocked(week)
		return week
	}

	var week models.WeekSchedule
	if err := json.Unmarshal(raw, &week); err != nil {
		s.logger.Warn("failed to decode stored week schedule, generating default", zap.Error(err))
		week = models.GenerateDefaultWeekSchedule(s.rng)
		s.persistWeekLocked(week)
		return week
	}

	if !weekShapeValid(week) {
		s.logger.Warn("stored week schedule is missing days, generating default")
		week = models.GenerateDefaultWeekSchedule(s.rng)
		s.persistWeekLocked(week)
		return week
	}
	sortDays(&week)
	return week
}

// weekShapeValid reports whether the week carries exactly one day per weekday
// value 0..6. Callers index days by weekday value, so a payload missing days
// is as unusable as a malformed one, even when every element is well formed.
func weekShapeValid(week models.WeekSchedule) bool {
	if len(week.Days) != 7 {
		return false
	}
	var seen [7]bool
	for _, day := range week.Days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 || seen[day.DayOfWeek] {
			return false
		}
		seen[day.DayOfWeek] = true
	}
	return true
}

// sortDays orders days by weekday value so Days[i].DayOfWeek == i holds for
// externally supplied schedules too.
func sortDays(week *models.WeekSchedule) {
	sort.Slice(week.Days, func(i, j int) bool {
		return week.Days[i].DayOfWeek < week.Days[j].DayOfWeek
	})
}

func (s *Store) loadLanguage() models.Language {
	raw, err := s.provider.Get(storage.KeyLanguage)
	if err != nil || !validation.ValidateLanguage(raw) {
		s.persistLanguageLocked(models.LanguageEN)
		return models.LanguageEN
	}

	var lang models.Language
	if err := json.Unmarshal(raw, &lang); err != nil {
		s.persistLanguageLocked(models.LanguageEN)
		return models.LanguageEN
	}
	return lang
}

// Activities returns a copy of the current activity collection.
func (s *Store) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// ActivityByID returns the activity with the given id, if present.
func (s *Store) ActivityByID(id string) (models.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, act := range s.activities {
		if act.ID == id {
			return act, true
		}
	}
	return models.Activity{}, false
}

// WeekSchedule returns a deep copy of the current week schedule.
func (s *Store) WeekSchedule() models.WeekSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week.Clone()
}

// Language returns the current label language preference.
func (s *Store) Language() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// AddActivity appends a new activity with a freshly generated unique id and
// returns it.
func (s *Store) AddActivity(name, nameKh string) models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity := models.Activity{
		ID:     fmt.Sprintf("custom-%s", uuid.New().String()),
		Name:   name,
		NameKh: nameKh,
	}

	next := make([]models.Activity, len(s.activities), len(s.activities)+1)
	copy(next, s.activities)
	s.activities = append(next, activity)
	s.persistActivitiesLocked(s.activities)
	return activity
}

// ActivityUpdate holds the fields to merge into an existing activity. Nil
// fields are left unchanged.
type ActivityUpdate struct {
	Name   *string
	NameKh *string
}

// UpdateActivity merges the update into the matching activity. Unknown ids
// are a no-op.
func (s *Store) UpdateActivity(id string, update ActivityUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Activity, len(s.activities))
	copy(next, s.activities)
	found := false
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if update.Name != nil {
			next[i].Name = *update.Name
		}
		if update.NameKh != nil {
			next[i].NameKh = *update.NameKh
		}
		found = true
	}
	if !found {
		return
	}

	s.activities = next
	s.persistActivitiesLocked(s.activities)
}

// DeleteActivity removes the activity and synchronously clears every time
// slot that referenced it, so no slot ever points at a nonexistent activity.
func (s *Store) DeleteActivity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Activity, 0, len(s.activities))
	for _, act := range s.activities {
		if act.ID != id {
			next = append(next, act)
		}
	}
	if len(next) == len(s.activities) {
		return
	}

	s.activities = next
	s.persistActivitiesLocked(s.activities)
	s.reconcileReferencesLocked()
}

// reconcileReferencesLocked nulls out slot references to activities that no
// longer exist. Completion flags are left untouched. Persists the schedule
// only when something actually changed.
func (s *Store) reconcileReferencesLocked() {
	validIDs := make(map[string]bool, len(s.activities))
	for _, act := range s.activities {
		validIDs[act.ID] = true
	}

	dirty := false
	for _, day := range s.week.Days {
		for _, slot := range day.TimeSlots {
			if slot.ActivityID != nil && !validIDs[*slot.ActivityID] {
				dirty = true
			}
		}
	}
	if !dirty {
		return
	}

	week := s.week.Clone()
	for i := range week.Days {
		for j := range week.Days[i].TimeSlots {
			slot := &week.Days[i].TimeSlots[j]
			if slot.ActivityID != nil && !validIDs[*slot.ActivityID] {
				slot.ActivityID = nil
			}
		}
	}
	s.week = week
	s.persistWeekLocked(s.week)
}

// ToggleDayOff flips the day-off flag for the named day and regenerates that
// day's entire slot batch: old slot ids and assignments are discarded. A day
// switching to day-off starts pre-filled with shuffled activities assigned
// cyclically; a day switching to workday starts empty.
func (s *Store) ToggleDayOff(dayOfWeek int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := s.week.Clone()
	changed := false
	for i := range week.Days {
		day := &week.Days[i]
		if day.DayOfWeek != dayOfWeek {
			continue
		}

		day.IsDayOff = !day.IsDayOff
		day.TimeSlots = models.GenerateTimeSlots(s.rng, dayOfWeek, day.IsDayOff, models.DefaultStartHour)

		if day.IsDayOff && len(s.activities) > 0 {
			shuffled := models.ShuffleArray(s.rng, s.activities)
			for j := range day.TimeSlots {
				id := shuffled[j%len(shuffled)].ID
				day.TimeSlots[j].ActivityID = &id
			}
		}
		changed = true
	}
	if !changed {
		return
	}

	s.week = week
	s.persistWeekLocked(s.week)
}

// ToggleTaskCompletion flips the completed flag on the matching slot. Unknown
// slot ids and slots without an assigned activity are no-ops: completion is
// meaningless for an empty slot.
func (s *Store) ToggleTaskCompletion(slotID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayIdx, slotIdx, ok := s.week.FindSlot(slotID)
	if !ok || s.week.Days[dayIdx].TimeSlots[slotIdx].ActivityID == nil {
		return
	}

	week := s.week.Clone()
	slot := &week.Days[dayIdx].TimeSlots[slotIdx]
	slot.Completed = !slot.Completed
	s.week = week
	s.persistWeekLocked(s.week)
}

// AssignActivityToSlot sets the slot's activity reference directly. Passing
// nil clears the slot. Unknown slot ids are a no-op. The activity id is not
// checked against the collection here; DeleteActivity's cascade is the only
// path that can invalidate a reference afterwards.
func (s *Store) AssignActivityToSlot(slotID string, activityID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayIdx, slotIdx, ok := s.week.FindSlot(slotID)
	if !ok {
		return
	}

	week := s.week.Clone()
	slot := &week.Days[dayIdx].TimeSlots[slotIdx]
	if activityID != nil {
		id := *activityID
		slot.ActivityID = &id
	} else {
		slot.ActivityID = nil
	}
	s.week = week
	s.persistWeekLocked(s.week)
}

// SwapActivitySlots exchanges the activity references of the two named slots.
// Positions, times, and completion flags are untouched. If either id does not
// resolve to an existing slot the state is unchanged.
func (s *Store) SwapActivitySlots(slotID1, slotID2 string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d1, i1, ok1 := s.week.FindSlot(slotID1)
	d2, i2, ok2 := s.week.FindSlot(slotID2)
	if !ok1 || !ok2 {
		return
	}

	week := s.week.Clone()
	slot1 := &week.Days[d1].TimeSlots[i1]
	slot2 := &week.Days[d2].TimeSlots[i2]
	slot1.ActivityID, slot2.ActivityID = slot2.ActivityID, slot1.ActivityID
	s.week = week
	s.persistWeekLocked(s.week)
}

// GenerateRandomSchedule fills every day with an independent shuffle of the
// activity collection, assigned cyclically by slot index, and resets every
// completion flag. A no-op when no activities exist.
func (s *Store) GenerateRandomSchedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.activities) == 0 {
		return
	}

	week := s.week.Clone()
	for i := range week.Days {
		shuffled := models.ShuffleArray(s.rng, s.activities)
		for j := range week.Days[i].TimeSlots {
			id := shuffled[j%len(shuffled)].ID
			week.Days[i].TimeSlots[j].ActivityID = &id
			week.Days[i].TimeSlots[j].Completed = false
		}
	}
	s.week = week
	s.persistWeekLocked(s.week)
}

// CompletionPercentage returns the weekly completion as a rounded integer
// percentage. Only slots with an assigned activity count; with none assigned
// the result is 0.
func (s *Store) CompletionPercentage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assigned := 0
	completed := 0
	for _, day := range s.week.Days {
		for _, slot := range day.TimeSlots {
			if slot.ActivityID == nil {
				continue
			}
			assigned++
			if slot.Completed {
				completed++
			}
		}
	}
	if assigned == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(assigned) * 100))
}

// SetLanguage sets and persists the label language preference.
func (s *Store) SetLanguage(lang models.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = lang
	s.persistLanguageLocked(lang)
}

// ImportWeekSchedule replaces the week schedule with an externally supplied
// one (e.g. fetched from the sync server). The payload is re-validated like
// any other untrusted data, and slot references to activities missing from
// the local collection are cleared afterwards.
func (s *Store) ImportWeekSchedule(week models.WeekSchedule) error {
	raw, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	if !validation.ValidateWeekSchedule(raw) {
		return fmt.Errorf("schedule failed validation")
	}
	if !weekShapeValid(week) {
		return fmt.Errorf("schedule must contain each of the 7 days exactly once")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.week = week.Clone()
	sortDays(&s.week)
	s.persistWeekLocked(s.week)
	s.reconcileReferencesLocked()
	return nil
}

// ResetToDefaults discards all state and restores the built-in defaults.
func (s *Store) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = models.DefaultActivities()
	s.week = models.GenerateDefaultWeekSchedule(s.rng)
	s.persistRaw(storage.KeyDataVersion, []byte(defaultsVersionHash()))
	s.persistActivitiesLocked(s.activities)
	s.persistWeekLocked(s.week)
	s.reconcileReferencesLocked()
}

func (s *Store) persistActivitiesLocked(activities []models.Activity) {
	data, err := json.Marshal(activities)
	if err != nil {
		s.logger.Warn("failed to encode activities", zap.Error(err))
		return
	}
	s.persistRaw(storage.KeyActivities, data)
}

func (s *Store) persistWeekLocked(week models.WeekSchedule) {
	data, err := json.Marshal(week)
	if err != nil {
		s.logger.Warn("failed to encode week schedule", zap.Error(err))
		return
	}
	s.persistRaw(storage.KeyWeekSchedule, data)
}

func (s *Store) persistLanguageLocked(lang models.Language) {
	data, err := json.Marshal(lang)
	if err != nil {
		s.logger.Warn("failed to encode language", zap.Error(err))
		return
	}
	s.persistRaw(storage.KeyLanguage, data)
}

// persistRaw writes one key, logging and swallowing failures: the in-memory
// state stays authoritative for the session even when durable writes fail.
func (s *Store) persistRaw(key string, value []byte) {
	if err := s.provider.Set(key, value); err != nil {
		s.logger.Warn("failed to persist state", zap.String("key", key), zap.Error(err))
	}
}
