package cli

import (
	"fmt"

	"github.com/sovanreach/weekplan/internal/models"
)

type RandomizeCmd struct{}

func (c *RandomizeCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	if len(store.Activities()) == 0 {
		return fmt.Errorf("no activities to assign, add some first")
	}

	store.GenerateRandomSchedule()
	fmt.Println("Generated a random schedule for the whole week")
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	fmt.Printf("Weekly completion: %d%%\n", store.CompletionPercentage())
	return nil
}

type LangCmd struct {
	Language string `arg:"" optional:"" help:"Language to set (en|kh). Prints the current language when omitted."`
}

func (c *LangCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	if c.Language == "" {
		fmt.Println(store.Language())
		return nil
	}

	switch c.Language {
	case "en":
		store.SetLanguage(models.LanguageEN)
	case "kh":
		store.SetLanguage(models.LanguageKH)
	default:
		return fmt.Errorf("invalid language: %s (expected en or kh)", c.Language)
	}

	fmt.Printf("Language set to %s\n", c.Language)
	return nil
}

type ResetCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Force {
		fmt.Print("Reset all data to defaults? This cannot be undone. [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	store.ResetToDefaults()
	fmt.Println("Reset activities and week schedule to defaults")
	return nil
}
