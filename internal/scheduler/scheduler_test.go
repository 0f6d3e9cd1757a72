package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	owner = "user-1"
	// 2026-01-07 is a Wednesday.
	today     = "2026-01-07"
	yesterday = "2026-01-06"
)

var created = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "scheduler.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func addHabit(t *testing.T, store *sqlite.Store, h models.Habit) {
	t.Helper()
	if h.OwnerID == "" {
		h.OwnerID = owner
	}
	if h.FrequencyType == "" {
		h.FrequencyType = models.FrequencyDaily
	}
	h.CreatedAt = created
	require.NoError(t, store.AddHabit(h))
}

func generatedTasks(t *testing.T, store *sqlite.Store, day string) map[string]models.Task {
	t.Helper()
	tasks, err := store.ListTasks(owner, models.TaskFilter{From: day, To: day})
	require.NoError(t, err)
	out := make(map[string]models.Task)
	for _, task := range tasks {
		if task.HabitID != "" {
			_, dup := out[task.HabitID]
			require.False(t, dup, "two tasks for habit %s", task.HabitID)
			out[task.HabitID] = task
		}
	}
	return out
}

func TestGenerateCreatesOneTaskPerDueHabit(t *testing.T) {
	store := newStore(t)
	archived := created
	addHabit(t, store, models.Habit{ID: "daily", Name: "Stretch", XPReward: 12, Difficulty: models.DifficultyHard, ReminderTimes: []string{"07:30", "19:00"}})
	addHabit(t, store, models.Habit{ID: "wed", Name: "Review", FrequencyType: models.FrequencyWeekdays, Weekdays: []time.Weekday{time.Wednesday}, TimeOfDay: "14:00"})
	addHabit(t, store, models.Habit{ID: "thu", Name: "Swim", FrequencyType: models.FrequencyWeekdays, Weekdays: []time.Weekday{time.Thursday}})
	addHabit(t, store, models.Habit{ID: "tpw", Name: "Read", FrequencyType: models.FrequencyTimesPerWeek, TimesPerWeek: 3})
	addHabit(t, store, models.Habit{ID: "old", Name: "Old", ArchivedAt: &archived})

	gen := NewGenerator(store)
	report, err := gen.Generate(context.Background(), owner, today)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.True(t, report.OK())

	tasks := generatedTasks(t, store, today)
	require.Len(t, tasks, 3)

	assert.Equal(t, "07:30", tasks["daily"].TimeOfDay, "first reminder wins")
	assert.Equal(t, 12, tasks["daily"].XPReward)
	assert.Equal(t, models.DifficultyHard, tasks["daily"].Difficulty)
	assert.Equal(t, "Stretch", tasks["daily"].Title)

	assert.Equal(t, "14:00", tasks["wed"].TimeOfDay)
	assert.Equal(t, 8, tasks["wed"].XPReward, "default reward")

	assert.Equal(t, "23:59", tasks["tpw"].TimeOfDay, "end of day fallback")
	assert.NotContains(t, tasks, "thu")
	assert.NotContains(t, tasks, "old")
}

func TestGenerateIsIdempotent(t *testing.T) {
	store := newStore(t)
	addHabit(t, store, models.Habit{ID: "a", Name: "A"})
	addHabit(t, store, models.Habit{ID: "b", Name: "B"})
	require.NoError(t, store.AddTask(models.Task{ID: "manual", OwnerID: owner, Title: "Manual", Date: today, CreatedAt: created}))

	gen := NewGenerator(store)
	for i := 0; i < 3; i++ {
		_, err := gen.Generate(context.Background(), owner, today)
		require.NoError(t, err)
	}

	report, err := gen.Generate(context.Background(), owner, today)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, generatedTasks(t, store, today), 2)
}

func TestGenerateConcurrentRunsDoNotDuplicate(t *testing.T) {
	store := newStore(t)
	for i := 0; i < 5; i++ {
		addHabit(t, store, models.Habit{ID: fmt.Sprintf("h%d", i), Name: "H"})
	}

	gen := NewGenerator(store)
	var wg sync.WaitGroup
	reports := make([]Report, 4)
	for i := range reports {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := gen.Generate(context.Background(), owner, today)
			assert.NoError(t, err)
			reports[i] = r
		}()
	}
	wg.Wait()

	total := 0
	for _, r := range reports {
		total += r.Created
	}
	assert.Equal(t, 5, total)
	assert.Len(t, generatedTasks(t, store, today), 5)
}

// flakyTasks fails inserts for one habit.
type flakyTasks struct {
	*sqlite.Store
	habitID string
}

func (f flakyTasks) AddTask(task models.Task) error {
	if task.HabitID == f.habitID {
		return errors.New("write failed")
	}
	return f.Store.AddTask(task)
}

func TestGenerateReportsPartialFailure(t *testing.T) {
	store := newStore(t)
	addHabit(t, store, models.Habit{ID: "a", Name: "A"})
	addHabit(t, store, models.Habit{ID: "b", Name: "B"})
	addHabit(t, store, models.Habit{ID: "c", Name: "C"})

	report, err := NewGenerator(flakyTasks{store, "b"}).Generate(context.Background(), owner, today)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Error(t, report.Err)
	assert.Contains(t, report.Err.Error(), "habit b")
	assert.False(t, report.OK())
}

func TestGenerateRejectsBadDate(t *testing.T) {
	_, err := NewGenerator(newStore(t)).Generate(context.Background(), owner, "01/07/2026")
	assert.True(t, qerrors.IsValidation(err))
}

func seedUsers(t *testing.T, store *sqlite.Store, n int) []string {
	t.Helper()
	var ids []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("user-%03d", i)
		require.NoError(t, store.AddUser(models.User{ID: id, Name: id, CreatedAt: created}))
		addHabit(t, store, models.Habit{ID: id + "-daily", OwnerID: id, Name: "Daily"})
		addHabit(t, store, models.Habit{ID: id + "-thu", OwnerID: id, Name: "Thursdays", FrequencyType: models.FrequencyWeekdays, Weekdays: []time.Weekday{time.Thursday}})
		ids = append(ids, id)
	}
	return ids
}

func TestBackfillRecordsMissesForEveryUser(t *testing.T) {
	store := newStore(t)
	ids := seedUsers(t, store, 23)

	// One user already completed yesterday's habit.
	require.NoError(t, store.AddHabitLog(models.HabitLog{ID: "done", OwnerID: ids[0], HabitID: ids[0] + "-daily", Date: yesterday, Completed: true, XPEarned: 8, CreatedAt: created}))

	backfill := NewBackfill(store, WithWorkers(4), WithPageSize(5))
	report, err := backfill.Run(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 23, report.Users)
	assert.Equal(t, 22, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.OK())

	for _, id := range ids {
		logs, err := store.ListHabitLogs(id, yesterday, yesterday)
		require.NoError(t, err)
		require.Len(t, logs, 1, id)
		assert.Equal(t, id+"-daily", logs[0].HabitID, "only the habit due on Tuesday is backfilled")
		if id == ids[0] {
			assert.True(t, logs[0].Completed, "existing completion is left alone")
		} else {
			assert.False(t, logs[0].Completed)
			assert.Zero(t, logs[0].XPEarned)
		}
	}
}

func TestBackfillIsIdempotent(t *testing.T) {
	store := newStore(t)
	ids := seedUsers(t, store, 7)

	backfill := NewBackfill(store, WithWorkers(3), WithPageSize(2), WithWriteRate(1000))
	_, err := backfill.Run(context.Background(), today, yesterday)
	require.NoError(t, err)

	report, err := backfill.Run(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 7, report.Skipped)

	for _, id := range ids {
		logs, err := store.ListHabitLogs(id, yesterday, yesterday)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	}
}

func TestBackfillSkipsHabitsCreatedAfterTheDay(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.AddUser(models.User{ID: owner, Name: owner, CreatedAt: created}))
	addHabit(t, store, models.Habit{ID: "old", Name: "Old"})
	require.NoError(t, store.AddHabit(models.Habit{
		ID:            "new",
		OwnerID:       owner,
		Name:          "New",
		FrequencyType: models.FrequencyDaily,
		CreatedAt:     time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC),
	}))

	report, err := NewBackfill(store).Run(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	logs, err := store.ListHabitLogs(owner, yesterday, yesterday)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "old", logs[0].HabitID)

	// A habit created during the day can still be missed that day.
	report, err = NewBackfill(store).Run(context.Background(), "2026-01-08", today)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
}

func TestBackfillRejectsDaysThatHaveNotEnded(t *testing.T) {
	backfill := NewBackfill(newStore(t))
	for _, day := range []string{today, "2026-01-08"} {
		_, err := backfill.Run(context.Background(), today, day)
		assert.True(t, qerrors.IsValidation(err), day)
	}
}

func TestBackfillRunsHookFirst(t *testing.T) {
	store := newStore(t)
	seedUsers(t, store, 1)

	called := 0
	backfill := NewBackfill(store, WithBeforeRun(func() error {
		called++
		logs, err := store.ListHabitLogs("user-000", yesterday, yesterday)
		require.NoError(t, err)
		assert.Empty(t, logs)
		return errors.New("backup failed")
	}))
	report, err := backfill.Run(context.Background(), today, yesterday)
	require.NoError(t, err, "hook failure does not stop the run")
	assert.Equal(t, 1, called)
	assert.Equal(t, 1, report.Created)
}

// brokenUser fails habit reads for one user.
type brokenUser struct {
	*sqlite.Store
	userID string
}

func (b brokenUser) ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error) {
	if ownerID == b.userID {
		return nil, errors.New("connection reset")
	}
	return b.Store.ListHabits(ownerID, includeArchived)
}

func TestBackfillContinuesPastFailingUser(t *testing.T) {
	store := newStore(t)
	seedUsers(t, store, 6)

	backfill := NewBackfill(brokenUser{store, "user-002"}, WithWorkers(2), WithPageSize(4))
	report, err := backfill.Run(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Users)
	assert.Equal(t, 1, report.FailedUsers)
	assert.Equal(t, 5, report.Created)
	require.Error(t, report.Err)
	assert.Contains(t, report.Err.Error(), "user-002")
	assert.True(t, qerrors.IsPersistence(report.Err))
}

func TestBackfillStopsWhenCancelled(t *testing.T) {
	store := newStore(t)
	seedUsers(t, store, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewBackfill(store).Run(ctx, today, yesterday)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Created)
}

func TestInChunksFinishesEachChunkFirst(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	var done atomic.Int64
	var violations []int

	err := InChunks(context.Background(), items, 5, func(i int) error {
		if done.Load() < int64((i/5)*5) {
			mu.Lock()
			violations = append(violations, i)
			mu.Unlock()
		}
		if i == 7 {
			return errors.New("boom")
		}
		return nil
	}, func(int, error) {
		done.Add(1)
	}, func() {
		done.Add(1)
	})
	require.NoError(t, err)
	assert.Empty(t, violations, "items started before the previous chunk finished")
	assert.EqualValues(t, 23, done.Load())
}

func TestArchiveCompletedTasks(t *testing.T) {
	store := newStore(t)
	completedAt := created
	for i := 0; i < 120; i++ {
		task := models.Task{ID: fmt.Sprintf("t%03d", i), OwnerID: owner, Title: "T", Date: "2026-01-05", CreatedAt: created}
		if i%4 != 0 {
			task.Completed = true
			task.CompletedAt = &completedAt
		}
		require.NoError(t, store.AddTask(task))
	}
	require.NoError(t, store.AddTask(models.Task{ID: "future", OwnerID: owner, Title: "F", Date: "2026-01-09", Completed: true, CompletedAt: &completedAt, CreatedAt: created}))

	report, err := ArchiveCompletedTasks(context.Background(), store, owner, today, created)
	require.NoError(t, err)
	assert.Equal(t, 90, report.Created)
	assert.True(t, report.OK())

	remaining, err := store.ListTasks(owner, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 31, "open tasks and tasks after the cutoff stay")
	for _, task := range remaining {
		assert.True(t, !task.Completed || task.ID == "future", task.ID)
	}
}
