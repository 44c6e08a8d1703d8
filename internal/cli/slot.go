package cli

import "fmt"

type SlotAssignCmd struct {
	SlotID   string `arg:"" help:"Time slot ID."`
	Activity string `arg:"" optional:"" help:"Activity ID to assign."`
	Clear    bool   `short:"c" help:"Clear the slot instead of assigning."`
}

func (c *SlotAssignCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	if _, _, ok := store.WeekSchedule().FindSlot(c.SlotID); !ok {
		return fmt.Errorf("slot not found: %s", c.SlotID)
	}

	if c.Clear {
		store.AssignActivityToSlot(c.SlotID, nil)
		fmt.Printf("Cleared slot %s\n", c.SlotID)
		return nil
	}

	if c.Activity == "" {
		return fmt.Errorf("an activity ID is required unless --clear is set")
	}
	if _, ok := store.ActivityByID(c.Activity); !ok {
		return fmt.Errorf("activity not found: %s", c.Activity)
	}

	store.AssignActivityToSlot(c.SlotID, &c.Activity)
	fmt.Printf("Assigned %s to slot %s\n", c.Activity, c.SlotID)
	return nil
}

type SlotCompleteCmd struct {
	SlotID string `arg:"" help:"Time slot ID."`
}

func (c *SlotCompleteCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	dayIdx, slotIdx, ok := store.WeekSchedule().FindSlot(c.SlotID)
	if !ok {
		return fmt.Errorf("slot not found: %s", c.SlotID)
	}
	if store.WeekSchedule().Days[dayIdx].TimeSlots[slotIdx].ActivityID == nil {
		return fmt.Errorf("slot %s has no activity assigned", c.SlotID)
	}

	store.ToggleTaskCompletion(c.SlotID)

	week := store.WeekSchedule()
	state := "incomplete"
	if week.Days[dayIdx].TimeSlots[slotIdx].Completed {
		state = "complete"
	}
	fmt.Printf("Slot %s marked %s\n", c.SlotID, state)
	return nil
}

type SlotSwapCmd struct {
	SlotID1 string `arg:"" help:"First time slot ID."`
	SlotID2 string `arg:"" help:"Second time slot ID."`
}

func (c *SlotSwapCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	week := store.WeekSchedule()
	if _, _, ok := week.FindSlot(c.SlotID1); !ok {
		return fmt.Errorf("slot not found: %s", c.SlotID1)
	}
	if _, _, ok := week.FindSlot(c.SlotID2); !ok {
		return fmt.Errorf("slot not found: %s", c.SlotID2)
	}

	store.SwapActivitySlots(c.SlotID1, c.SlotID2)
	fmt.Printf("Swapped activities between %s and %s\n", c.SlotID1, c.SlotID2)
	return nil
}
