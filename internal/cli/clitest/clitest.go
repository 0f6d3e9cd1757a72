// Package clitest builds command contexts backed by a throwaway SQLite
// database for command tests.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

// Today is the date the returned contexts believe it is, a Wednesday.
const Today = "2024-03-13"

// Now is the instant behind Today.
var Now = time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

// New returns a context for the default user on an initialized SQLite
// store under t.TempDir. The store is closed when the test ends.
func New(t testing.TB) *cli.Context {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database = filepath.Join(dir, "test.db")
	cfg.Timezone = "UTC"

	store := sqlite.NewStore(cfg.Database)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx, err := cli.NewContext(store, cfg)
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	ctx.ConfigPath = filepath.Join(dir, "config.yaml")
	ctx.Now = func() time.Time { return Now }

	if err := store.AddUser(models.User{ID: ctx.UserID, Name: "Test user", CreatedAt: Now}); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	return ctx
}

// AddHabit stores a daily habit for the context's user.
func AddHabit(t testing.TB, ctx *cli.Context, id, name string, xp int) models.Habit {
	t.Helper()
	h := models.Habit{
		ID:            id,
		OwnerID:       ctx.UserID,
		Name:          name,
		FrequencyType: models.FrequencyDaily,
		XPReward:      xp,
		CreatedAt:     Now.AddDate(0, 0, -30),
	}
	if err := ctx.Store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

// AddTask stores an incomplete task for the context's user.
func AddTask(t testing.TB, ctx *cli.Context, id, title, date string, xp int) models.Task {
	t.Helper()
	task := models.Task{
		ID:        id,
		OwnerID:   ctx.UserID,
		Title:     title,
		Date:      date,
		TimeOfDay: "09:00",
		XPReward:  xp,
		CreatedAt: Now,
	}
	if err := ctx.Store.AddTask(task); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	return task
}
