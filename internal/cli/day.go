package cli

import (
	"fmt"

	"github.com/sovanreach/weekplan/internal/models"
)

type DayShowCmd struct {
	Day string `arg:"" optional:"" help:"Weekday name or index (0=Monday). Shows the whole week when omitted."`
}

func (c *DayShowCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	lang := store.Language()
	week := store.WeekSchedule()

	only := -1
	if c.Day != "" {
		only, err = parseWeekday(c.Day)
		if err != nil {
			return err
		}
	}

	for _, day := range week.Days {
		if only >= 0 && day.DayOfWeek != only {
			continue
		}

		label := models.DayName(day.DayOfWeek, lang)
		if day.IsDayOff {
			label += " (day off)"
		}
		fmt.Println(label)
		for _, slot := range day.TimeSlots {
			fmt.Printf("  %s\n", slotLabel(store, slot, lang))
		}
	}
	return nil
}

type DayOffCmd struct {
	Day string `arg:"" help:"Weekday name or index (0=Monday)."`
}

func (c *DayOffCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	day, err := parseWeekday(c.Day)
	if err != nil {
		return err
	}

	store.ToggleDayOff(day)

	week := store.WeekSchedule()
	mode := "workday"
	if week.Days[day].IsDayOff {
		mode = "day off"
	}
	fmt.Printf("%s is now a %s (slots regenerated)\n", models.DayName(day, models.LanguageEN), mode)
	return nil
}
