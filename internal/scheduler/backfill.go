package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/utils"
)

type BackfillStore interface {
	storage.UserStore
	storage.HabitStore
	storage.HabitLogStore
}

// BackfillReport aggregates a run over every user.
type BackfillReport struct {
	Date        string
	Users       int
	FailedUsers int
	Report
}

func (r BackfillReport) String() string {
	return fmt.Sprintf("%s: %d users (%d failed), %s", r.Date, r.Users, r.FailedUsers, r.Report)
}

// Backfill records a miss for every due habit that has no log for a day
// that has already ended.
type Backfill struct {
	store    BackfillStore
	workers  int
	pageSize int
	limiter  *rate.Limiter
	before   func() error
	now      func() time.Time
}

type BackfillOption func(*Backfill)

// WithWorkers bounds how many users are processed at once.
func WithWorkers(n int) BackfillOption {
	return func(b *Backfill) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithPageSize sets how many users are read from the store per page.
func WithPageSize(n int) BackfillOption {
	return func(b *Backfill) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// WithWriteRate caps habit log inserts per second across all workers.
// Zero or less leaves writes unthrottled.
func WithWriteRate(perSecond float64) BackfillOption {
	return func(b *Backfill) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		} else {
			b.limiter = nil
		}
	}
}

// WithBeforeRun registers a hook that runs once before a backfill starts,
// such as taking a database backup. A failing hook is logged and the run
// continues.
func WithBeforeRun(fn func() error) BackfillOption {
	return func(b *Backfill) { b.before = fn }
}

func WithBackfillClock(now func() time.Time) BackfillOption {
	return func(b *Backfill) { b.now = now }
}

func NewBackfill(store BackfillStore, opts ...BackfillOption) *Backfill {
	b := &Backfill{
		store:    store,
		workers:  constants.DefaultBackfillWorkers,
		pageSize: constants.DefaultBackfillPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Yesterday returns the calendar day before today.
func Yesterday(today string) (string, error) {
	return utils.AddDays(today, -1)
}

// Run evaluates day for every user. day must be strictly before today,
// which is the current calendar date of the caller.
//
// Users are streamed page by page and handed to a bounded pool. A failing
// user is counted and the run continues; the returned error is reserved
// for failures that stop the run, such as the user listing failing or ctx
// being cancelled.
func (b *Backfill) Run(ctx context.Context, today, day string) (BackfillReport, error) {
	report := BackfillReport{Date: day}

	date, err := utils.ParseDate(day)
	if err != nil {
		return report, qerrors.Invalid("date", "%v", err)
	}
	if day >= today {
		return report, qerrors.Invalid("date", "%s has not ended yet", day)
	}

	log := logger.With("job", "backfill", "date", day)
	if b.before != nil {
		if err := b.before(); err != nil {
			log.Warn("Pre-backfill hook failed", "error", err)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	after := ""
	var listErr error
	for {
		if gctx.Err() != nil {
			break
		}
		users, err := b.store.ListUsers(after, b.pageSize)
		if err != nil {
			listErr = qerrors.Persistence("list users", err)
			break
		}

		for _, user := range users {
			userID := user.ID
			// Go blocks while the pool is full, so pages are only read as
			// fast as users are processed.
			g.Go(func() error {
				r, err := b.backfillUser(gctx, userID, day, date)
				mu.Lock()
				defer mu.Unlock()
				report.Users++
				report.merge(r)
				if err != nil {
					report.FailedUsers++
					report.Err = errors.Join(report.Err, fmt.Errorf("user %s: %w", userID, err))
					log.Warn("Backfill failed for user", "user", userID, "error", err)
				}
				return nil
			})
		}

		if len(users) < b.pageSize {
			break
		}
		after = users[len(users)-1].ID
	}

	_ = g.Wait()

	if listErr != nil {
		return report, listErr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	log.Info("Backfill finished", "users", report.Users, "created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// RunUser backfills a single user for day.
func (b *Backfill) RunUser(ctx context.Context, userID, day string) (Report, error) {
	date, err := utils.ParseDate(day)
	if err != nil {
		return Report{}, qerrors.Invalid("date", "%v", err)
	}
	return b.backfillUser(ctx, userID, day, date)
}

func (b *Backfill) backfillUser(ctx context.Context, userID, day string, date time.Time) (Report, error) {
	var report Report

	habits, err := b.store.ListHabits(userID, false)
	if err != nil {
		return report, qerrors.Persistence("list habits", err)
	}

	for _, habit := range utils.DueHabits(habits, date) {
		// A habit cannot be missed before it existed.
		if utils.FormatDate(habit.CreatedAt) > day {
			continue
		}
		if _, err := b.store.GetHabitLog(userID, habit.ID, day); err == nil {
			report.Skipped++
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			report.fail(fmt.Errorf("habit %s: %w", habit.ID, err))
			continue
		}

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return report, err
			}
		} else if err := ctx.Err(); err != nil {
			return report, err
		}

		err := b.store.AddHabitLog(models.HabitLog{
			ID:        uuid.NewString(),
			OwnerID:   userID,
			HabitID:   habit.ID,
			Date:      day,
			Completed: false,
			CreatedAt: b.now(),
		})
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, storage.ErrDuplicate):
			report.Skipped++
		default:
			report.fail(fmt.Errorf("habit %s: %w", habit.ID, err))
		}
	}
	return report, nil
}
