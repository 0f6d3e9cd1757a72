package jobs

import (
	"context"
	"testing"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli/clitest"
	"github.com/julianstephens/questlog/internal/models"
)

func TestGenerateCmd(t *testing.T) {
	ctx := clitest.New(t)
	clitest.AddHabit(t, ctx, "habit-1", "Read", 10)
	clitest.AddHabit(t, ctx, "habit-2", "Stretch", 0)

	if err := (&GenerateCmd{}).Run(ctx); err != nil {
		t.Fatalf("job generate failed: %v", err)
	}
	tasks, err := ctx.Store.ListTasks(ctx.UserID, models.TaskFilter{From: clitest.Today, To: clitest.Today})
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 generated tasks, got %d", len(tasks))
	}

	// A second run finds the tasks already there.
	if err := (&GenerateCmd{}).Run(ctx); err != nil {
		t.Fatalf("second job generate failed: %v", err)
	}
	tasks, err = ctx.Store.ListTasks(ctx.UserID, models.TaskFilter{From: clitest.Today, To: clitest.Today})
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected generation to be idempotent, got %d tasks", len(tasks))
	}
}

func TestGenerateCmd_AllUsers(t *testing.T) {
	ctx := clitest.New(t)
	clitest.AddHabit(t, ctx, "habit-1", "Read", 10)

	other := models.User{ID: "other", Name: "Other", CreatedAt: clitest.Now}
	if err := ctx.Store.AddUser(other); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	if err := ctx.Store.AddHabit(models.Habit{
		ID:            "habit-other",
		OwnerID:       other.ID,
		Name:          "Walk",
		FrequencyType: models.FrequencyDaily,
		CreatedAt:     clitest.Now,
	}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := (&GenerateCmd{Date: "2024-03-14", All: true}).Run(ctx); err != nil {
		t.Fatalf("job generate --all failed: %v", err)
	}
	for _, userID := range []string{ctx.UserID, other.ID} {
		tasks, err := ctx.Store.ListTasks(userID, models.TaskFilter{From: "2024-03-14", To: "2024-03-14"})
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if len(tasks) != 1 {
			t.Errorf("user %s: expected 1 task, got %d", userID, len(tasks))
		}
	}
}

func TestBackfillCmd(t *testing.T) {
	ctx := clitest.New(t)
	clitest.AddHabit(t, ctx, "habit-1", "Read", 10)
	clitest.AddHabit(t, ctx, "habit-2", "Stretch", 5)
	if _, err := ctx.Ledger.CompleteHabit(ctx.UserID, "habit-2", "2024-03-12"); err != nil {
		t.Fatalf("failed to complete habit: %v", err)
	}

	if err := (&BackfillCmd{NoBackup: true}).Run(ctx); err != nil {
		t.Fatalf("job backfill failed: %v", err)
	}

	miss, err := ctx.Store.GetHabitLog(ctx.UserID, "habit-1", "2024-03-12")
	if err != nil {
		t.Fatalf("expected a miss for yesterday: %v", err)
	}
	if miss.Completed {
		t.Error("expected the backfilled log to be a miss")
	}
	done, err := ctx.Store.GetHabitLog(ctx.UserID, "habit-2", "2024-03-12")
	if err != nil {
		t.Fatalf("failed to get habit log: %v", err)
	}
	if !done.Completed {
		t.Error("expected the completed log to be left alone")
	}
}

func TestBackfillCmd_RejectsOpenDay(t *testing.T) {
	ctx := clitest.New(t)
	if err := (&BackfillCmd{Date: clitest.Today, NoBackup: true}).Run(ctx); err == nil {
		t.Error("expected error backfilling a day that has not ended")
	}
}

func TestNewBackfill_TakesBackup(t *testing.T) {
	ctx := clitest.New(t)
	clitest.AddHabit(t, ctx, "habit-1", "Read", 10)

	if _, err := NewBackfill(ctx, false).Run(context.Background(), clitest.Today, "2024-03-12"); err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		t.Error("expected a backup before the run")
	}
}
