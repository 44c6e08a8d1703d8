package schedule

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sovanreach/weekplan/internal/models"
	"github.com/sovanreach/weekplan/internal/storage"
)

// memProvider is an in-memory storage.Provider for tests. failSet simulates
// an unavailable durable store.
type memProvider struct {
	data    map[string][]byte
	failSet bool
}

func newMemProvider() *memProvider {
	return &memProvider{data: make(map[string][]byte)}
}

func (m *memProvider) Init() error  { return nil }
func (m *memProvider) Load() error  { return nil }
func (m *memProvider) Close() error { return nil }
func (m *memProvider) Path() string { return "mem" }

func (m *memProvider) Get(key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, storage.ErrNotFound)
	}
	return value, nil
}

func (m *memProvider) Set(key string, value []byte) error {
	if m.failSet {
		return fmt.Errorf("disk full")
	}
	m.data[key] = value
	return nil
}

func (m *memProvider) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memProvider) {
	t.Helper()
	provider := newMemProvider()
	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(42))))
	return store, provider
}

// firstSlotID returns the id of slot index i on day d.
func firstSlotID(s *Store, d, i int) string {
	return s.WeekSchedule().Days[d].TimeSlots[i].ID
}

func assertReferencesValid(t *testing.T, s *Store) {
	t.Helper()
	valid := map[string]bool{}
	for _, act := range s.Activities() {
		valid[act.ID] = true
	}
	for _, day := range s.WeekSchedule().Days {
		for _, slot := range day.TimeSlots {
			if slot.ActivityID != nil && !valid[*slot.ActivityID] {
				t.Fatalf("slot %s references missing activity %s", slot.ID, *slot.ActivityID)
			}
		}
	}
}

func assertWeekShape(t *testing.T, s *Store) {
	t.Helper()
	week := s.WeekSchedule()
	if len(week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week.Days))
	}
	seen := map[int]bool{}
	for _, day := range week.Days {
		if seen[day.DayOfWeek] {
			t.Fatalf("duplicate dayOfWeek %d", day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true
	}
}

func TestNewStore_SeedsDefaults(t *testing.T) {
	store, provider := newTestStore(t)

	if len(store.Activities()) != 8 {
		t.Errorf("expected 8 default activities, got %d", len(store.Activities()))
	}
	assertWeekShape(t, store)
	if store.Language() != models.LanguageEN {
		t.Errorf("default language should be en, got %s", store.Language())
	}

	// Self-healing: defaults are persisted immediately
	for _, key := range []string{storage.KeyActivities, storage.KeyWeekSchedule, storage.KeyLanguage, storage.KeyDataVersion} {
		if _, ok := provider.data[key]; !ok {
			t.Errorf("key %s not persisted on first load", key)
		}
	}
}

func TestNewStore_RecoversFromCorruptData(t *testing.T) {
	provider := newMemProvider()
	provider.data[storage.KeyActivities] = []byte(`{"not":"a list"}`)
	provider.data[storage.KeyWeekSchedule] = []byte(`garbage`)
	provider.data[storage.KeyLanguage] = []byte(`"de"`)
	provider.data[storage.KeyDataVersion] = []byte(`old`)

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(1))))

	if len(store.Activities()) != 8 {
		t.Errorf("corrupt activities should be replaced by defaults")
	}
	assertWeekShape(t, store)
	if store.Language() != models.LanguageEN {
		t.Errorf("corrupt language should fall back to en")
	}
}

func TestNewStore_KeepsValidStoredData(t *testing.T) {
	store, provider := newTestStore(t)

	added := store.AddActivity("Read", "")
	store.SetLanguage(models.LanguageKH)
	slotID := firstSlotID(store, 0, 0)
	store.AssignActivityToSlot(slotID, &added.ID)

	reloaded := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(2))))

	if len(reloaded.Activities()) != 9 {
		t.Errorf("expected 9 activities after reload, got %d", len(reloaded.Activities()))
	}
	if reloaded.Language() != models.LanguageKH {
		t.Errorf("language not preserved across reload")
	}
	got := reloaded.WeekSchedule().Days[0].TimeSlots[0].ActivityID
	if got == nil || *got != added.ID {
		t.Errorf("slot assignment not preserved across reload")
	}
}

// emptySlotWeekJSON builds a well-formed 7-day schedule whose days carry no
// slots. It passes payload validation but is a degenerate schedule.
func emptySlotWeekJSON() []byte {
	days := make([]string, 7)
	for i := range days {
		days[i] = fmt.Sprintf(`{"dayOfWeek":%d,"isDayOff":false,"timeSlots":[]}`, i)
	}
	return []byte(`{"days":[` + strings.Join(days, ",") + `]}`)
}

func TestNewStore_ReplacesIncompleteWeek(t *testing.T) {
	provider := newMemProvider()
	// Well-formed single day, but the week must always carry all 7
	provider.data[storage.KeyWeekSchedule] = []byte(`{"days":[{"dayOfWeek":0,"isDayOff":false,"timeSlots":[]}]}`)

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(4))))

	assertWeekShape(t, store)
	for _, day := range store.WeekSchedule().Days {
		if len(day.TimeSlots) != 8 {
			t.Errorf("day %d should carry regenerated default slots, got %d", day.DayOfWeek, len(day.TimeSlots))
		}
	}
}

func TestNewStore_ReplacesDuplicateDayWeek(t *testing.T) {
	provider := newMemProvider()
	days := make([]string, 7)
	for i := range days {
		days[i] = `{"dayOfWeek":3,"isDayOff":false,"timeSlots":[]}`
	}
	provider.data[storage.KeyWeekSchedule] = []byte(`{"days":[` + strings.Join(days, ",") + `]}`)

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(5))))
	assertWeekShape(t, store)
}

func TestNewStore_KeepsEmptySlotLists(t *testing.T) {
	provider := newMemProvider()
	provider.data[storage.KeyWeekSchedule] = emptySlotWeekJSON()

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(6))))

	assertWeekShape(t, store)
	for _, day := range store.WeekSchedule().Days {
		if len(day.TimeSlots) != 0 {
			t.Errorf("day %d slot list should stay empty, got %d slots", day.DayOfWeek, len(day.TimeSlots))
		}
	}
	if store.CompletionPercentage() != 0 {
		t.Errorf("slotless week should report 0%%, got %d", store.CompletionPercentage())
	}
}

func TestNewStore_OrdersStoredDays(t *testing.T) {
	provider := newMemProvider()
	days := make([]string, 7)
	for i := range days {
		days[i] = fmt.Sprintf(`{"dayOfWeek":%d,"isDayOff":false,"timeSlots":[]}`, 6-i)
	}
	provider.data[storage.KeyWeekSchedule] = []byte(`{"days":[` + strings.Join(days, ",") + `]}`)

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(7))))

	for i, day := range store.WeekSchedule().Days {
		if day.DayOfWeek != i {
			t.Fatalf("Days[%d].DayOfWeek = %d, want %d", i, day.DayOfWeek, i)
		}
	}
}

func TestNewStore_ReplacesActivitiesWhenDefaultsChange(t *testing.T) {
	provider := newMemProvider()
	// Valid stored activities but a stale defaults version hash
	provider.data[storage.KeyActivities] = []byte(`[{"id":"old-1","name":"Old"}]`)
	provider.data[storage.KeyDataVersion] = []byte(`stale-hash`)

	store := NewStore(provider, zap.NewNop(), WithRand(rand.New(rand.NewSource(3))))

	if len(store.Activities()) != 8 {
		t.Errorf("stale defaults version should reset activities to the new default set")
	}
}

func TestAddActivity_UniqueIDs(t *testing.T) {
	store, _ := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		act := store.AddActivity(fmt.Sprintf("Task %d", i), "")
		if seen[act.ID] {
			t.Fatalf("duplicate activity id %s", act.ID)
		}
		seen[act.ID] = true
	}
	if len(store.Activities()) != 108 {
		t.Errorf("expected 108 activities, got %d", len(store.Activities()))
	}
}

func TestUpdateActivity(t *testing.T) {
	store, _ := newTestStore(t)
	act := store.AddActivity("Read", "អាន")

	newName := "Read Books"
	store.UpdateActivity(act.ID, ActivityUpdate{Name: &newName})

	got, ok := store.ActivityByID(act.ID)
	if !ok {
		t.Fatal("activity disappeared after update")
	}
	if got.Name != "Read Books" {
		t.Errorf("name not updated: %s", got.Name)
	}
	if got.NameKh != "អាន" {
		t.Errorf("partial update should leave nameKh untouched, got %s", got.NameKh)
	}

	// Unknown id is a no-op
	before := store.Activities()
	store.UpdateActivity("nope", ActivityUpdate{Name: &newName})
	after := store.Activities()
	if len(before) != len(after) {
		t.Error("update of unknown id changed the collection")
	}
}

func TestDeleteActivity_CascadesToSlots(t *testing.T) {
	store, _ := newTestStore(t)

	slotID := firstSlotID(store, 2, 3)
	actID := "act-1"
	store.AssignActivityToSlot(slotID, &actID)
	store.ToggleTaskCompletion(slotID)

	store.DeleteActivity("act-1")

	if _, ok := store.ActivityByID("act-1"); ok {
		t.Fatal("activity still present after delete")
	}

	week := store.WeekSchedule()
	_, _, ok := week.FindSlot(slotID)
	if !ok {
		t.Fatal("slot disappeared")
	}
	slot := week.Days[2].TimeSlots[3]
	if slot.ActivityID != nil {
		t.Errorf("cascade should null the reference, got %v", *slot.ActivityID)
	}
	if !slot.Completed {
		t.Errorf("cascade must not touch the completion flag")
	}
	assertReferencesValid(t, store)
}

func TestDeleteActivity_UnknownIDNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	before := len(store.Activities())
	store.DeleteActivity("missing")
	if len(store.Activities()) != before {
		t.Error("deleting unknown id changed the collection")
	}
}

func TestToggleDayOff_RegeneratesAndPrefills(t *testing.T) {
	store, _ := newTestStore(t)

	oldIDs := map[string]bool{}
	for _, slot := range store.WeekSchedule().Days[4].TimeSlots {
		oldIDs[slot.ID] = true
	}

	store.ToggleDayOff(4)

	week := store.WeekSchedule()
	day := week.Days[4]
	if !day.IsDayOff {
		t.Fatal("day should be a day off after toggle")
	}
	if first := day.TimeSlots[0].Time; first != "09:00" && first != "10:00" {
		t.Errorf("day-off slots should start at 09:00 or 10:00, got %s", first)
	}
	for i, slot := range day.TimeSlots {
		if oldIDs[slot.ID] {
			t.Errorf("slot %d kept a stale id after regeneration", i)
		}
		if slot.ActivityID == nil {
			t.Errorf("day-off slot %d should be pre-filled", i)
		}
	}
	assertReferencesValid(t, store)

	// Other days untouched
	for d, otherDay := range week.Days {
		if d == 4 {
			continue
		}
		if otherDay.IsDayOff {
			t.Errorf("day %d flipped unexpectedly", d)
		}
	}
}

func TestToggleDayOff_TwiceRestoresFlagNotSlots(t *testing.T) {
	store, _ := newTestStore(t)

	original := store.WeekSchedule().Days[1].TimeSlots
	store.ToggleDayOff(1)
	store.ToggleDayOff(1)

	day := store.WeekSchedule().Days[1]
	if day.IsDayOff {
		t.Fatal("double toggle should restore isDayOff=false")
	}
	if day.TimeSlots[0].ID == original[0].ID {
		t.Error("double toggle should regenerate slots, not restore them")
	}
	for i, slot := range day.TimeSlots {
		if slot.ActivityID != nil {
			t.Errorf("workday regeneration should leave slot %d empty", i)
		}
	}
}

func TestToggleDayOff_NoActivitiesLeavesSlotsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	for _, act := range store.Activities() {
		store.DeleteActivity(act.ID)
	}

	store.ToggleDayOff(0)

	for i, slot := range store.WeekSchedule().Days[0].TimeSlots {
		if slot.ActivityID != nil {
			t.Errorf("slot %d should be empty with no activities", i)
		}
	}
}

func TestToggleTaskCompletion(t *testing.T) {
	store, _ := newTestStore(t)
	slotID := firstSlotID(store, 0, 0)

	// Empty slot: no-op
	store.ToggleTaskCompletion(slotID)
	if store.WeekSchedule().Days[0].TimeSlots[0].Completed {
		t.Error("completion toggled on an empty slot")
	}

	actID := "act-2"
	store.AssignActivityToSlot(slotID, &actID)
	store.ToggleTaskCompletion(slotID)
	if !store.WeekSchedule().Days[0].TimeSlots[0].Completed {
		t.Error("completion not toggled on")
	}
	store.ToggleTaskCompletion(slotID)
	if store.WeekSchedule().Days[0].TimeSlots[0].Completed {
		t.Error("completion not toggled off")
	}

	// Unknown id: no-op
	store.ToggleTaskCompletion("slot-missing")
}

func TestAssignActivityToSlot(t *testing.T) {
	store, _ := newTestStore(t)
	slotID := firstSlotID(store, 6, 7)

	actID := "act-3"
	store.AssignActivityToSlot(slotID, &actID)
	got := store.WeekSchedule().Days[6].TimeSlots[7].ActivityID
	if got == nil || *got != "act-3" {
		t.Fatal("assignment did not stick")
	}

	store.AssignActivityToSlot(slotID, nil)
	if store.WeekSchedule().Days[6].TimeSlots[7].ActivityID != nil {
		t.Error("nil assignment should clear the slot")
	}

	// Unknown slot: state unchanged
	before, _ := json.Marshal(store.WeekSchedule())
	store.AssignActivityToSlot("slot-missing", &actID)
	after, _ := json.Marshal(store.WeekSchedule())
	if string(before) != string(after) {
		t.Error("assignment to unknown slot changed state")
	}
}

func TestSwapActivitySlots_Involution(t *testing.T) {
	store, _ := newTestStore(t)

	slotA := firstSlotID(store, 0, 0)
	slotB := firstSlotID(store, 3, 5)
	idA := "act-1"
	store.AssignActivityToSlot(slotA, &idA)
	store.ToggleTaskCompletion(slotA)

	store.SwapActivitySlots(slotA, slotB)

	week := store.WeekSchedule()
	if week.Days[0].TimeSlots[0].ActivityID != nil {
		t.Error("slot A should be empty after swap")
	}
	gotB := week.Days[3].TimeSlots[5].ActivityID
	if gotB == nil || *gotB != "act-1" {
		t.Error("slot B should carry act-1 after swap")
	}
	// Completion flags stay with the slot, not the activity
	if !week.Days[0].TimeSlots[0].Completed {
		t.Error("swap must not move completion flags")
	}
	if week.Days[3].TimeSlots[5].Completed {
		t.Error("swap must not move completion flags")
	}

	// Swapping again restores the original assignment
	store.SwapActivitySlots(slotA, slotB)
	week = store.WeekSchedule()
	gotA := week.Days[0].TimeSlots[0].ActivityID
	if gotA == nil || *gotA != "act-1" {
		t.Error("double swap should restore the original assignment")
	}
	if week.Days[3].TimeSlots[5].ActivityID != nil {
		t.Error("double swap should restore slot B to empty")
	}
}

func TestSwapActivitySlots_UnknownIDNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	slotA := firstSlotID(store, 0, 0)
	idA := "act-1"
	store.AssignActivityToSlot(slotA, &idA)

	before, _ := json.Marshal(store.WeekSchedule())
	store.SwapActivitySlots(slotA, "slot-missing")
	store.SwapActivitySlots("slot-missing", slotA)
	after, _ := json.Marshal(store.WeekSchedule())
	if string(before) != string(after) {
		t.Error("swap with unknown slot changed state")
	}
}

func TestGenerateRandomSchedule(t *testing.T) {
	store, _ := newTestStore(t)

	// Pre-complete a slot to verify the reset
	slotID := firstSlotID(store, 0, 0)
	actID := "act-1"
	store.AssignActivityToSlot(slotID, &actID)
	store.ToggleTaskCompletion(slotID)

	store.GenerateRandomSchedule()

	valid := map[string]bool{}
	for _, act := range store.Activities() {
		valid[act.ID] = true
	}
	for _, day := range store.WeekSchedule().Days {
		for _, slot := range day.TimeSlots {
			if slot.ActivityID == nil {
				t.Fatalf("slot %s left unassigned", slot.ID)
			}
			if !valid[*slot.ActivityID] {
				t.Fatalf("slot %s assigned unknown activity", slot.ID)
			}
			if slot.Completed {
				t.Fatalf("slot %s should have completion reset", slot.ID)
			}
		}
	}
	if store.CompletionPercentage() != 0 {
		t.Errorf("completion should be 0 after randomize, got %d", store.CompletionPercentage())
	}
}

func TestGenerateRandomSchedule_NoActivitiesNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	for _, act := range store.Activities() {
		store.DeleteActivity(act.ID)
	}

	before, _ := json.Marshal(store.WeekSchedule())
	store.GenerateRandomSchedule()
	after, _ := json.Marshal(store.WeekSchedule())
	if string(before) != string(after) {
		t.Error("randomize with zero activities changed state")
	}
}

func TestCompletionPercentage(t *testing.T) {
	store, _ := newTestStore(t)

	if got := store.CompletionPercentage(); got != 0 {
		t.Errorf("empty week should be 0%%, got %d", got)
	}

	// 4 assigned, 1 completed -> 25
	actID := "act-1"
	for i := 0; i < 4; i++ {
		store.AssignActivityToSlot(firstSlotID(store, 0, i), &actID)
	}
	store.ToggleTaskCompletion(firstSlotID(store, 0, 0))
	if got := store.CompletionPercentage(); got != 25 {
		t.Errorf("expected 25%%, got %d", got)
	}

	// 3 assigned, 1 completed -> round(33.33) = 33
	store.AssignActivityToSlot(firstSlotID(store, 0, 3), nil)
	if got := store.CompletionPercentage(); got != 33 {
		t.Errorf("expected 33%%, got %d", got)
	}
}

func TestPersistFailureKeepsStateAuthoritative(t *testing.T) {
	store, provider := newTestStore(t)
	provider.failSet = true

	act := store.AddActivity("Read", "")
	if _, ok := store.ActivityByID(act.ID); !ok {
		t.Error("in-memory state must survive persistence failures")
	}

	slotID := firstSlotID(store, 0, 0)
	store.AssignActivityToSlot(slotID, &act.ID)
	got := store.WeekSchedule().Days[0].TimeSlots[0].ActivityID
	if got == nil || *got != act.ID {
		t.Error("assignment lost after persistence failure")
	}
}

func TestImportWeekSchedule(t *testing.T) {
	store, _ := newTestStore(t)

	imported := store.WeekSchedule()
	ghost := "act-ghost"
	imported.Days[0].TimeSlots[0].ActivityID = &ghost
	real := "act-1"
	imported.Days[0].TimeSlots[1].ActivityID = &real

	if err := store.ImportWeekSchedule(imported); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	week := store.WeekSchedule()
	if week.Days[0].TimeSlots[0].ActivityID != nil {
		t.Error("reference to unknown activity should be cleared on import")
	}
	got := week.Days[0].TimeSlots[1].ActivityID
	if got == nil || *got != "act-1" {
		t.Error("valid reference should survive import")
	}
	assertReferencesValid(t, store)
}

func TestImportWeekSchedule_RejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t)

	bad := store.WeekSchedule()
	bad.Days[0].DayOfWeek = 9
	if err := store.ImportWeekSchedule(bad); err == nil {
		t.Error("import of invalid schedule should fail")
	}
	assertWeekShape(t, store)
}

func TestImportWeekSchedule_RejectsIncompleteWeek(t *testing.T) {
	store, _ := newTestStore(t)

	short := store.WeekSchedule()
	short.Days = short.Days[:1]
	if err := store.ImportWeekSchedule(short); err == nil {
		t.Error("import of a 1-day schedule should fail")
	}

	dup := store.WeekSchedule()
	dup.Days[1].DayOfWeek = 0
	if err := store.ImportWeekSchedule(dup); err == nil {
		t.Error("import with a duplicated weekday should fail")
	}

	assertWeekShape(t, store)
}

func TestSnapshotIsolation(t *testing.T) {
	store, _ := newTestStore(t)

	week := store.WeekSchedule()
	week.Days[0].IsDayOff = true
	id := "act-1"
	week.Days[0].TimeSlots[0].ActivityID = &id

	fresh := store.WeekSchedule()
	if fresh.Days[0].IsDayOff {
		t.Error("mutating a snapshot leaked into the store")
	}
	if fresh.Days[0].TimeSlots[0].ActivityID != nil {
		t.Error("mutating a snapshot slot leaked into the store")
	}

	acts := store.Activities()
	acts[0].Name = "Mutated"
	if store.Activities()[0].Name == "Mutated" {
		t.Error("mutating the activities snapshot leaked into the store")
	}
}

func TestSetLanguagePersists(t *testing.T) {
	store, provider := newTestStore(t)

	store.SetLanguage(models.LanguageKH)
	if string(provider.data[storage.KeyLanguage]) != `"kh"` {
		t.Errorf("language not persisted, got %s", provider.data[storage.KeyLanguage])
	}
}

func TestResetToDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddActivity("Read", "")
	store.ToggleDayOff(0)
	store.ResetToDefaults()

	if len(store.Activities()) != 8 {
		t.Errorf("expected 8 activities after reset, got %d", len(store.Activities()))
	}
	assertWeekShape(t, store)
	for _, day := range store.WeekSchedule().Days {
		if day.IsDayOff {
			t.Errorf("day %d should be a workday after reset", day.DayOfWeek)
		}
	}
}
