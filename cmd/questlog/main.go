package main

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/cli/backups"
	"github.com/julianstephens/questlog/internal/cli/habits"
	"github.com/julianstephens/questlog/internal/cli/insights"
	"github.com/julianstephens/questlog/internal/cli/jobs"
	"github.com/julianstephens/questlog/internal/cli/progress"
	"github.com/julianstephens/questlog/internal/cli/system"
	"github.com/julianstephens/questlog/internal/cli/tasks"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"~/.config/questlog/config.yaml"`
	Database string `help:"SQLite path, PostgreSQL connection string without a password, or \"keyring\". Overrides the config file."`
	UserID   string `name:"user" help:"User ID to act as. Overrides the config file."`
	Debug    bool   `help:"Enable debug logging."`

	Init    system.InitCmd      `cmd:"" help:"Initialize questlog storage."`
	Migrate system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Keyring system.KeyringCmd   `cmd:"" help:"Manage the database connection string in the OS keyring."`
	User    system.UserCmd      `cmd:"" help:"Manage users."`
	Habit   habits.HabitCmd     `cmd:"" help:"Manage habits and mark them done."`
	Task    tasks.TaskCmd       `cmd:"" help:"Manage tasks."`
	CheckIn progress.CheckInCmd `cmd:"" name:"checkin" help:"Record a daily check-in."`
	XP      progress.XPCmd      `cmd:"" name:"xp" help:"Show level progress and recent XP."`
	Goal    progress.GoalCmd    `cmd:"" help:"Manage goals."`
	Job     jobs.JobCmd         `cmd:"" help:"Run the daily batch jobs."`
	Oracle  insights.OracleCmd  `cmd:"" help:"Read insights or ask the oracle."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Tui system.TuiCmd `cmd:"" help:"Launch the interactive dashboard." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("questlog"),
		kong.Description("Habits, tasks and XP with an oracle that reads your history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"task_xp": strconv.Itoa(constants.DefaultTaskXP),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		qerrors.Fatal(err)
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
	}
	if CLI.UserID != "" {
		cfg.User = CLI.UserID
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: config.ConfigDir(CLI.Config),
	}); err != nil {
		qerrors.Fatal(err)
	}

	// Keyring commands manage the connection string itself, so they run
	// without a database.
	if isKeyringCmd(ctx) {
		appCtx, err := cli.NewContext(nil, cfg)
		if err != nil {
			qerrors.Fatal(err)
		}
		if err := ctx.Run(appCtx); err != nil {
			qerrors.Fatal(err)
		}
		return
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		qerrors.Fatal(err)
	}
	appCtx, err := cli.NewContext(store, cfg)
	if err != nil {
		qerrors.Fatal(err)
	}
	appCtx.ConfigPath = CLI.Config

	// Init creates the schema itself.
	if cmd := ctx.Selected(); cmd != nil && cmd.Name != "init" {
		if err := store.Load(); err != nil {
			qerrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		qerrors.Fatal(err)
	}
	store.Close()
}

func isKeyringCmd(ctx *kong.Context) bool {
	for _, p := range ctx.Path {
		if p.Command != nil && p.Command.Name == "keyring" {
			return true
		}
	}
	return false
}
