package storage

import (
	"fmt"

	qerrors "github.com/julianstephens/questlog/internal/errors"
)

var (
	// ErrNotFound is returned when a lookup matches no row for the owner.
	ErrNotFound = fmt.Errorf("record %w", qerrors.ErrNotFound)
	// ErrDuplicate is returned by conditional inserts that lost to an
	// existing row with the same unique key.
	ErrDuplicate = fmt.Errorf("record %w", qerrors.ErrConflict)
)
