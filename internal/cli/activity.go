package cli

import (
	"fmt"

	"github.com/sovanreach/weekplan/internal/schedule"
)

type ActivityAddCmd struct {
	Name   string `arg:"" help:"Activity name."`
	NameKh string `short:"k" help:"Optional Khmer label."`
}

func (c *ActivityAddCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	activity := store.AddActivity(c.Name, c.NameKh)
	fmt.Printf("Added activity: %s (ID: %s)\n", activity.Name, activity.ID)
	return nil
}

type ActivityEditCmd struct {
	ID     string  `arg:"" help:"Activity ID."`
	Name   *string `short:"n" help:"New name."`
	NameKh *string `short:"k" help:"New Khmer label."`
}

func (c *ActivityEditCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	if _, ok := store.ActivityByID(c.ID); !ok {
		return fmt.Errorf("activity not found: %s", c.ID)
	}

	store.UpdateActivity(c.ID, schedule.ActivityUpdate{
		Name:   c.Name,
		NameKh: c.NameKh,
	})
	fmt.Printf("Updated activity %s\n", c.ID)
	return nil
}

type ActivityDeleteCmd struct {
	ID string `arg:"" help:"Activity ID."`
}

func (c *ActivityDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	if _, ok := store.ActivityByID(c.ID); !ok {
		return fmt.Errorf("activity not found: %s", c.ID)
	}

	store.DeleteActivity(c.ID)
	fmt.Printf("Deleted activity %s (slots referencing it were cleared)\n", c.ID)
	return nil
}

type ActivityListCmd struct{}

func (c *ActivityListCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	lang := store.Language()
	for _, act := range store.Activities() {
		fmt.Printf("%-40s %s\n", act.Label(lang), act.ID)
	}
	return nil
}
