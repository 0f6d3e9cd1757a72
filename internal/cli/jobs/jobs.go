package jobs

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/scheduler"
)

type JobCmd struct {
	Generate GenerateCmd `cmd:"" help:"Create today's tasks from due habits."`
	Backfill BackfillCmd `cmd:"" help:"Record misses for due habits without a log on a finished day."`
}

type GenerateCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	All  bool   `help:"Generate for every user instead of the current one."`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	day, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := scheduler.NewGenerator(ctx.Store)
	users := []string{ctx.UserID}
	if c.All {
		if users, err = allUsers(ctx); err != nil {
			return err
		}
	}

	var total scheduler.Report
	var errs []error
	for _, userID := range users {
		report, err := gen.Generate(runCtx, userID, day)
		if err != nil {
			return err
		}
		if c.All {
			fmt.Printf("  %s: %s\n", userID, report)
		}
		total.Created += report.Created
		total.Skipped += report.Skipped
		total.Failed += report.Failed
		if report.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", userID, report.Err))
		}
	}

	fmt.Printf("Generated tasks for %s: %s\n", day, total)
	return errors.Join(errs...)
}

func allUsers(ctx *cli.Context) ([]string, error) {
	var ids []string
	after := ""
	for {
		page, err := ctx.Store.ListUsers(after, constants.DefaultBackfillPageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range page {
			ids = append(ids, u.ID)
		}
		if len(page) < constants.DefaultBackfillPageSize {
			return ids, nil
		}
		after = page[len(page)-1].ID
	}
}

type BackfillCmd struct {
	Date     string `help:"Day to evaluate in YYYY-MM-DD format (default: yesterday)." default:""`
	NoBackup bool   `help:"Skip the automatic backup taken before the run."`
}

func (c *BackfillCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	day := c.Date
	if day == "" {
		if day, err = scheduler.Yesterday(today); err != nil {
			return err
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := NewBackfill(ctx, c.NoBackup).Run(runCtx, today, day)
	fmt.Printf("Backfill %s\n", report)
	if err != nil {
		return err
	}
	return report.Err
}

// NewBackfill configures the backfill job from the context's settings. On
// SQLite a backup is taken before the run unless disabled.
func NewBackfill(ctx *cli.Context, noBackup bool) *scheduler.Backfill {
	cfg := ctx.Config.Backfill
	opts := []scheduler.BackfillOption{
		scheduler.WithWorkers(cfg.Workers),
		scheduler.WithPageSize(cfg.PageSize),
		scheduler.WithWriteRate(cfg.WritesPerSecond),
		scheduler.WithBackfillClock(ctx.Now),
	}
	if ctx.IsSQLite() && !noBackup && !cfg.SkipBackup {
		opts = append(opts, scheduler.WithBeforeRun(func() error {
			path, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
			if err == nil {
				logger.Debug("Pre-backfill backup", "path", path)
			}
			return err
		}))
	}
	return scheduler.NewBackfill(ctx.Store, opts...)
}
