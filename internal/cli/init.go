package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Init(); err != nil {
		return err
	}

	// Building the store seeds the default activities and week schedule.
	if _, err := ctx.OpenSchedule(); err != nil {
		return err
	}

	fmt.Printf("Initialized weekplan storage at %s\n", ctx.Provider.Path())
	return nil
}
