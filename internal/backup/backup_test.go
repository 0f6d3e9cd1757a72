package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

// setupTestDB creates an initialized questlog database holding one user.
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "questlog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()
	if err := store.AddUser(models.User{ID: "alice", Name: "Alice", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	return dbPath
}

func userIDs(t *testing.T, dbPath string) []string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()
	users, err := store.ListUsers("", 100)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	var ids []string
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2026, 1, 7, 22, 30, 5, 0, time.Local) }

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if want := filepath.Join(filepath.Dir(dbPath), "backups", "questlog-20260107-223005.db"); path != want {
		t.Errorf("backup path = %s, want %s", path, want)
	}
	if err := Verify(path); err != nil {
		t.Errorf("backup does not verify: %v", err)
	}
	if ids := userIDs(t, path); len(ids) != 1 || ids[0] != "alice" {
		t.Errorf("backup users = %v, want [alice]", ids)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected an error when the database does not exist")
	}
}

func TestUniqueNamesWithinOneSecond(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	stamp := time.Date(2026, 1, 7, 22, 30, 5, 0, time.Local)
	mgr.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	if !strings.HasSuffix(backups[0].Path, "-2.db") {
		t.Errorf("newest backup = %s, want the highest counter first", backups[0].Path)
	}
}

func TestRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	mgr.now = fixedClock(start, time.Hour)

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("got %d backups, want %d", len(backups), constants.MaxBackups)
	}
	oldestKept := start.Add(3 * time.Hour)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", backups[len(backups)-1].Timestamp, oldestKept)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.List(); err != nil {
		t.Fatalf("List on a missing directory failed: %v", err)
	}
	if _, err := mgr.Create(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "questlog-latest.db", "questlog-20260107-2230.db", "other-20260107-223005.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"questlog-20260107-223005.db", true},
		{"questlog-20260107-223005-12.db", true},
		{"questlog-20260107-223005-x.db", false},
		{"questlog-20260107-223005_1.db", false},
		{"questlog-2026.db", false},
		{"questlog-20260107-223005.sqlite", false},
	}
	for _, tt := range tests {
		if _, _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local), time.Minute)

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.AddUser(models.User{ID: "bob", Name: "Bob", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	previous, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if ids := userIDs(t, dbPath); len(ids) != 1 || ids[0] != "alice" {
		t.Errorf("restored users = %v, want [alice]", ids)
	}
	if previous == "" {
		t.Fatal("expected the current database to be backed up before restoring")
	}
	if ids := userIDs(t, previous); len(ids) != 2 {
		t.Errorf("pre-restore backup users = %v, want alice and bob", ids)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database at all, just some text"), 0600); err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(dir, "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE notes (body TEXT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	for _, path := range []string{filepath.Join(dir, "missing.db"), garbage, foreign} {
		if _, err := mgr.Restore(path); err == nil {
			t.Errorf("Restore(%s) succeeded, want an error", filepath.Base(path))
		}
	}
	if ids := userIDs(t, dbPath); len(ids) != 1 {
		t.Errorf("database changed after rejected restores: %v", ids)
	}
}
