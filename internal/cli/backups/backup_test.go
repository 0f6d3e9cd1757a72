package backups

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/cli/clitest"
	"github.com/julianstephens/questlog/internal/storage/postgres"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

func TestBackupCreateAndList(t *testing.T) {
	ctx := clitest.New(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list on empty dir failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}
}

func TestBackupCommands_RequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://alice@localhost:5432/questlog")}

	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("create: expected errNotSQLite, got %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("list: expected errNotSQLite, got %v", err)
	}
	if err := (&BackupRestoreCmd{BackupFile: "x.db", Yes: true}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("restore: expected errNotSQLite, got %v", err)
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx := clitest.New(t)
	dbPath := ctx.Store.GetConfigPath()

	path, err := backup.NewManager(dbPath).Create()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	clitest.AddHabit(t, ctx, "habit-1", "Added after backup", 5)

	// Declining leaves the database untouched.
	cancel := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("n\n")}
	if err := cancel.Run(ctx); err != nil {
		t.Fatalf("cancelled restore failed: %v", err)
	}
	if _, err := ctx.Store.GetHabit(ctx.UserID, "habit-1"); err != nil {
		t.Fatalf("expected habit to survive a cancelled restore: %v", err)
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("y\n")}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to reopen restored database: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetHabit(ctx.UserID, "habit-1"); err == nil {
		t.Error("expected the habit added after the backup to be gone")
	}
	if _, err := reopened.GetUser(ctx.UserID); err != nil {
		t.Errorf("expected the user from the backup to be present: %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolve("missing.db", dir); err == nil {
		t.Error("expected error for a missing backup")
	}
	if _, err := resolve(filepath.Join(dir, "missing.db"), dir); err == nil {
		t.Error("expected error for a missing absolute path")
	}
}
