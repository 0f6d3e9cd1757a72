package goals

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

const user = "user-1"

func setup(t *testing.T) (*Progress, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "goals.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func addGoal(t *testing.T, store *sqlite.Store, g models.Goal) {
	t.Helper()
	g.OwnerID = user
	g.CreatedAt = time.Now()
	require.NoError(t, store.AddGoal(g))
}

func currentValue(t *testing.T, store *sqlite.Store, id string) int {
	t.Helper()
	g, err := store.GetGoal(user, id)
	require.NoError(t, err)
	return g.CurrentValue
}

func TestCompletedIncrementsActiveAccumulative(t *testing.T) {
	p, store := setup(t)
	addGoal(t, store, models.Goal{ID: "g", Title: "Meditate 30 times", GoalType: models.GoalAccumulative, Status: models.GoalActive, TargetValue: 30})

	for i := 0; i < 3; i++ {
		changed, err := p.Completed(user, "g")
		require.NoError(t, err)
		assert.True(t, changed)
	}
	assert.Equal(t, 3, currentValue(t, store, "g"))
}

func TestUncompletedFloorsAtZero(t *testing.T) {
	p, store := setup(t)
	addGoal(t, store, models.Goal{ID: "g", Title: "Run", GoalType: models.GoalAccumulative, Status: models.GoalActive, CurrentValue: 1})

	_, err := p.Uncompleted(user, "g")
	require.NoError(t, err)
	_, err = p.Uncompleted(user, "g")
	require.NoError(t, err)
	assert.Equal(t, 0, currentValue(t, store, "g"))
}

func TestIneligibleGoalsAreUntouched(t *testing.T) {
	p, store := setup(t)
	addGoal(t, store, models.Goal{ID: "target", Title: "Weight", GoalType: models.GoalTarget, Status: models.GoalActive, CurrentValue: 80})
	addGoal(t, store, models.Goal{ID: "done", Title: "Done", GoalType: models.GoalAccumulative, Status: models.GoalCompleted, CurrentValue: 5})
	addGoal(t, store, models.Goal{ID: "gone", Title: "Gone", GoalType: models.GoalAccumulative, Status: models.GoalActive, CurrentValue: 2})
	require.NoError(t, store.DeleteGoal(user, "gone"))

	for _, id := range []string{"target", "done", "gone", "missing", ""} {
		changed, err := p.Completed(user, id)
		require.NoError(t, err, id)
		assert.False(t, changed, id)
	}
	assert.Equal(t, 80, currentValue(t, store, "target"))
	assert.Equal(t, 5, currentValue(t, store, "done"))
	assert.Equal(t, 2, currentValue(t, store, "gone"))
}

type failingStore struct {
	storage.GoalStore
}

func (failingStore) AdjustGoalProgress(string, string, int) (bool, error) {
	return false, errors.New("connection refused")
}

func TestStoreFailureIsPersistenceError(t *testing.T) {
	p := New(failingStore{})
	_, err := p.Completed(user, "g")
	require.Error(t, err)
	assert.True(t, qerrors.IsPersistence(err))
}
