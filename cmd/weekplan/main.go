package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/sovanreach/weekplan/internal/cli"
	"github.com/sovanreach/weekplan/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path." type:"path" default:"~/.config/weekplan/weekplan.db"`
	Server  string `help:"Sync server base URL." default:"http://localhost:8080"`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Init cli.InitCmd `cmd:"" help:"Initialize weekplan storage."`
	Tui  cli.TuiCmd  `cmd:"" help:"Launch the interactive week view." default:"1"`
	Day  struct {
		Show cli.DayShowCmd `cmd:"" help:"Show a day's slots." default:"1"`
		Off  cli.DayOffCmd  `cmd:"" help:"Toggle a day between workday and day off."`
	} `cmd:"" help:"Inspect and toggle days."`
	Activity struct {
		Add    cli.ActivityAddCmd    `cmd:"" help:"Add a new activity."`
		Edit   cli.ActivityEditCmd   `cmd:"" help:"Edit an existing activity."`
		Delete cli.ActivityDeleteCmd `cmd:"" help:"Delete an activity and clear its slots."`
		List   cli.ActivityListCmd   `cmd:"" help:"List all activities."`
	} `cmd:"" help:"Manage activities."`
	Slot struct {
		Assign   cli.SlotAssignCmd   `cmd:"" help:"Assign an activity to a slot."`
		Complete cli.SlotCompleteCmd `cmd:"" help:"Toggle a slot's completion."`
		Swap     cli.SlotSwapCmd     `cmd:"" help:"Swap the activities of two slots."`
	} `cmd:"" help:"Manage time slots."`
	Randomize cli.RandomizeCmd `cmd:"" help:"Fill the week with shuffled activities."`
	Progress  cli.ProgressCmd  `cmd:"" help:"Show weekly completion percentage."`
	Lang      cli.LangCmd      `cmd:"" help:"Show or set the label language."`
	Reset     cli.ResetCmd     `cmd:"" help:"Reset all data to defaults."`
	Backup    struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the storage file."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Sync struct {
		Register cli.SyncRegisterCmd `cmd:"" help:"Create an account on the sync server."`
		Login    cli.SyncLoginCmd    `cmd:"" help:"Log in to the sync server."`
		Push     cli.SyncPushCmd     `cmd:"" help:"Upload the week schedule."`
		Pull     cli.SyncPullCmd     `cmd:"" help:"Download the saved week schedule."`
	} `cmd:"" help:"Sync the schedule with a remote server."`
	Serve  cli.ServeCmd  `cmd:"" help:"Run the sync server."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run storage diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("weekplan"),
		kong.Description("Personal weekly schedule planner"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	logger, err := buildLogger(CLI.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Storage backend follows the file extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Provider:  store,
		Logger:    logger,
		ServerURL: strings.TrimRight(CLI.Server, "/"),
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
