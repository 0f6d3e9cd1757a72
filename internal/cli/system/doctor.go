package system

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/keyring"
	"github.com/julianstephens/questlog/internal/migration"
	"github.com/julianstephens/questlog/internal/utils"
	"github.com/julianstephens/questlog/internal/validation"
)

// runnerStore is implemented by the SQL-backed stores.
type runnerStore interface {
	DB() *sql.DB
	Runner() (*migration.Runner, error)
}

func migrationRunner(ctx *cli.Context) (*migration.Runner, error) {
	rs, ok := ctx.Store.(runnerStore)
	if !ok {
		return nil, fmt.Errorf("store %T does not support migrations", ctx.Store)
	}
	return rs.Runner()
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures are reported without failing the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Default user", needsDB: true, run: checkUser},
	{name: "Habit configuration", needsDB: true, run: checkHabits},
	{name: "Ledger consistency", needsDB: true, run: checkLedger},
	{name: "Timezone", run: checkTimezone},
	{name: "Clock", run: checkClock},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	rs, ok := ctx.Store.(runnerStore)
	if !ok {
		return nil
	}
	var result int
	if err := rs.DB().QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, error) {
	runner, err := migrationRunner(ctx)
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'questlog migrate')", current, latest)
	}
	return nil
}

func checkUser(ctx *cli.Context) error {
	if _, err := ctx.Store.GetUser(ctx.UserID); err != nil {
		return fmt.Errorf("user %q not found (run 'questlog init' or 'questlog user add')", ctx.UserID)
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.UserID, false)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	if report := validation.AuditHabits(habits); report.HasIssues() {
		return fmt.Errorf("%s", report.FormatReport())
	}
	return nil
}

// checkLedger compares the stored sum with the transactions it is made of.
func checkLedger(ctx *cli.Context) error {
	sum, err := ctx.Store.SumXP(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to sum XP: %w", err)
	}
	txs, err := ctx.Store.ListXPTransactions(ctx.UserID, 0)
	if err != nil {
		return fmt.Errorf("failed to list XP transactions: %w", err)
	}
	total := 0
	for _, tx := range txs {
		total += tx.Amount
	}
	if total != sum {
		return fmt.Errorf("XP total %d does not match the sum of %d transactions (%d)", sum, len(txs), total)
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return fmt.Errorf("backups are only managed for SQLite; use your PostgreSQL tooling")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'questlog backup create'")
	}
	if age := ctx.Now().Sub(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if ctx.Config.Database != cli.KeyringDatabase {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	if _, err := keyring.Connection.Get(); err != nil {
		return fmt.Errorf("database is set to %q but %w", cli.KeyringDatabase, err)
	}
	return nil
}
