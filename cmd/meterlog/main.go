package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/cli/backups"
	"github.com/julianstephens/meterlog/internal/cli/readings"
	"github.com/julianstephens/meterlog/internal/cli/system"
	"github.com/julianstephens/meterlog/internal/constants"
	"github.com/julianstephens/meterlog/internal/errors"
	"github.com/julianstephens/meterlog/internal/logger"
	"github.com/julianstephens/meterlog/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	File    string `help:"Readings file. A .db or .sqlite extension selects SQLite storage." type:"path" default:"${default_file}" env:"METERLOG_FILE"`
	Debug   bool   `help:"Log debug output to stderr as well as the log file." env:"METERLOG_DEBUG"`

	Init     system.InitCmd            `cmd:"" help:"Initialize the readings file."`
	Doctor   system.DoctorCmd          `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd             `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      readings.ReadingAddCmd    `cmd:"" help:"Add a reading."`
	Delete   readings.ReadingDeleteCmd `cmd:"" help:"Delete a reading by row number."`
	List     readings.ReadingListCmd   `cmd:"" help:"List all readings."`
	DebugCmd system.DebugCmd           `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups of the readings file."`
}

func main() {
	// A missing .env is fine; anything else is worth a warning
	if err := godotenv.Load(constants.EnvFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", constants.EnvFile, err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Record and review meter readings"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"default_file": constants.DefaultConfigPath,
		},
	)

	log, err := logger.New(logger.Config{Debug: CLI.Debug, Dir: filepath.Dir(CLI.File)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		log = logger.Nop()
	}

	store := storage.New(CLI.File, log)
	defer store.Close()

	appCtx := cli.NewContext(store, log)

	// Init handles the data file itself
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		appCtx.Controller.Initialize()
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(log, err)
	}
}
