package cli

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sovanreach/weekplan/internal/models"
	"github.com/sovanreach/weekplan/internal/schedule"
	"github.com/sovanreach/weekplan/internal/storage"
)

type Context struct {
	Provider  storage.Provider
	Logger    *zap.Logger
	ServerURL string
}

// OpenSchedule loads the storage provider and builds the schedule store on
// top of it. Missing or corrupt stored data is replaced with defaults by the
// store itself.
func (ctx *Context) OpenSchedule() (*schedule.Store, error) {
	if err := ctx.Provider.Load(); err != nil {
		return nil, err
	}
	return schedule.NewStore(ctx.Provider, ctx.Logger), nil
}

// parseWeekday resolves a weekday name or index to the schedule's day index
// (0 = Monday .. 6 = Sunday).
func parseWeekday(s string) (int, error) {
	dayMap := map[string]int{
		"mon": 0, "monday": 0,
		"tue": 1, "tuesday": 1,
		"wed": 2, "wednesday": 2,
		"thu": 3, "thursday": 3,
		"fri": 4, "friday": 4,
		"sat": 5, "saturday": 5,
		"sun": 6, "sunday": 6,
	}

	key := strings.TrimSpace(strings.ToLower(s))
	if d, ok := dayMap[key]; ok {
		return d, nil
	}

	num, err := strconv.Atoi(key)
	if err == nil && num >= 0 && num <= 6 {
		return num, nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// slotLabel renders one slot for terminal output.
func slotLabel(store *schedule.Store, slot models.TimeSlot, lang models.Language) string {
	name := "-"
	if slot.ActivityID != nil {
		if act, ok := store.ActivityByID(*slot.ActivityID); ok {
			name = act.Label(lang)
		} else {
			name = *slot.ActivityID
		}
	}

	mark := " "
	if slot.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s  %-30s %s", mark, slot.Time, name, slot.ID)
}
