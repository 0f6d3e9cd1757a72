package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && ctx.IsSQLite() {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first so the file is not locked.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized questlog storage at: %s\n", ctx.Store.GetConfigPath())

	if err := ensureUser(ctx); err != nil {
		return err
	}

	if ctx.ConfigPath != "" {
		path := config.ExpandHome(ctx.ConfigPath)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.Save(path, ctx.Config); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote default config to: %s\n", path)
		}
	}
	return nil
}

// ensureUser creates the configured user if it does not exist yet.
func ensureUser(ctx *cli.Context) error {
	_, err := ctx.Store.GetUser(ctx.UserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	name := ctx.UserID
	if name == constants.DefaultUser {
		name = "Local user"
	}
	if err := ctx.Store.AddUser(models.User{ID: ctx.UserID, Name: name, CreatedAt: ctx.Now()}); err != nil && !errors.Is(err, storage.ErrDuplicate) {
		return err
	}
	fmt.Printf("Created user: %s\n", ctx.UserID)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := migrationRunner(ctx)
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
