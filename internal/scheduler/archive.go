package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
)

// ArchiveCompletedTasks archives the user's completed tasks dated on or
// before through. Tasks are processed in chunks: every update in a chunk
// finishes before the next chunk starts. The report's Created field counts
// archived tasks.
func ArchiveCompletedTasks(ctx context.Context, store storage.TaskStore, userID, through string, now time.Time) (Report, error) {
	var report Report

	tasks, err := store.ListTasks(userID, models.TaskFilter{To: through, OnlyCompleted: true})
	if err != nil {
		return report, qerrors.Persistence("list tasks", err)
	}

	err = InChunks(ctx, tasks, constants.BatchChunkSize, func(task models.Task) error {
		task.ArchivedAt = &now
		return store.UpdateTask(task)
	}, func(task models.Task, err error) {
		report.fail(fmt.Errorf("task %s: %w", task.ID, err))
	}, func() {
		report.Created++
	})
	if err != nil {
		return report, err
	}

	logger.Debug("Archived completed tasks", "user", userID, "through", through, "archived", report.Created, "failed", report.Failed)
	return report, nil
}

// InChunks applies fn to items in groups of size. Items within a group run
// concurrently; onErr and onOK are called with a lock held. It stops
// between chunks when ctx is done.
func InChunks[T any](ctx context.Context, items []T, size int, fn func(T) error, onErr func(T, error), onOK func()) error {
	if size <= 0 {
		size = constants.BatchChunkSize
	}
	var mu sync.Mutex

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+size, len(items))

		var g errgroup.Group
		for _, item := range items[start:end] {
			g.Go(func() error {
				err := fn(item)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					onErr(item, err)
				} else {
					onOK()
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	return nil
}
