// Package scheduler runs the daily batch jobs: generating tasks for due
// habits, backfilling missed habit logs, and archiving completed tasks.
package scheduler

import (
	"errors"
	"fmt"
)

// Report counts the outcome of a batch job. Err joins every per-unit
// failure; a non-nil Err does not mean nothing was written.
type Report struct {
	Created int
	Skipped int
	Failed  int
	Err     error
}

func (r *Report) fail(err error) {
	r.Failed++
	r.Err = errors.Join(r.Err, err)
}

func (r *Report) merge(o Report) {
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	if o.Err != nil {
		r.Err = errors.Join(r.Err, o.Err)
	}
}

// OK reports whether every unit succeeded.
func (r Report) OK() bool {
	return r.Failed == 0 && r.Err == nil
}

func (r Report) String() string {
	return fmt.Sprintf("%d created, %d skipped, %d failed", r.Created, r.Skipped, r.Failed)
}
