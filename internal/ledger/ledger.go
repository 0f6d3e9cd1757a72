// Package ledger owns the append-only XP ledger and the user actions that
// write to it. A user's total is always the sum of their transactions.
package ledger

import (
	"time"

	"github.com/google/uuid"

	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/goals"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/notifier"
	"github.com/julianstephens/questlog/internal/storage"
)

// Store is the part of the entity store the ledger writes through.
type Store interface {
	storage.XPStore
	storage.HabitStore
	storage.HabitLogStore
	storage.TaskStore
	storage.CheckInStore
	storage.GoalStore
}

type Ledger struct {
	store Store
	goals *goals.Progress
	sink  notifier.Sink
	floor *int
	now   func() time.Time
}

type Option func(*Ledger)

// WithFloor clips penalties so that no award takes a total below floor.
func WithFloor(floor int) Option {
	return func(l *Ledger) { l.floor = &floor }
}

func WithSink(sink notifier.Sink) Option {
	return func(l *Ledger) {
		if sink != nil {
			l.sink = sink
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		goals: goals.New(store),
		sink:  notifier.Discard,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Award appends one transaction and then emits an XP event. The event is
// only emitted once the write has succeeded.
func (l *Ledger) Award(userID string, amount int, source models.SourceType, sourceID, note string) (models.XPTransaction, error) {
	tx, err := l.award(userID, amount, source, sourceID, note)
	if err != nil {
		return models.XPTransaction{}, err
	}
	l.emit(tx)
	return tx, nil
}

func (l *Ledger) award(userID string, amount int, source models.SourceType, sourceID, note string) (models.XPTransaction, error) {
	if userID == "" {
		return models.XPTransaction{}, qerrors.Invalid("user", "must not be empty")
	}
	switch source {
	case models.SourceHabit, models.SourceTask, models.SourceCheckIn:
	default:
		return models.XPTransaction{}, qerrors.Invalid("source_type", "unknown source %q", source)
	}

	if amount < 0 && l.floor != nil {
		total, err := l.store.SumXP(userID)
		if err != nil {
			return models.XPTransaction{}, qerrors.Persistence("sum xp", err)
		}
		amount = clip(total, amount, *l.floor)
	}

	tx := models.XPTransaction{
		ID:         uuid.NewString(),
		OwnerID:    userID,
		SourceType: source,
		SourceID:   sourceID,
		Amount:     amount,
		Note:       note,
		CreatedAt:  l.now(),
	}
	if err := l.store.AddXPTransaction(tx); err != nil {
		return models.XPTransaction{}, qerrors.Persistence("append xp transaction", err)
	}
	logger.Debug("XP transaction recorded", "user", userID, "amount", amount, "source", source, "source_id", sourceID)
	return tx, nil
}

// clip limits a penalty so that total+amount does not fall below floor. A
// total already under the floor receives no further penalty.
func clip(total, amount, floor int) int {
	if total+amount >= floor {
		return amount
	}
	clipped := floor - total
	if clipped > 0 {
		return 0
	}
	return clipped
}

func (l *Ledger) emit(tx models.XPTransaction) {
	total, err := l.store.SumXP(tx.OwnerID)
	if err != nil {
		logger.Warn("Failed to total XP for feedback", "user", tx.OwnerID, "error", err)
		return
	}
	l.sink.XPAwarded(notifier.Event{
		UserID:        tx.OwnerID,
		TransactionID: tx.ID,
		SourceType:    tx.SourceType,
		SourceID:      tx.SourceID,
		Amount:        tx.Amount,
		Total:         total,
		Note:          tx.Note,
	})
}

// Total aggregates the user's ledger.
func (l *Ledger) Total(userID string) (int, error) {
	total, err := l.store.SumXP(userID)
	if err != nil {
		return 0, qerrors.Persistence("sum xp", err)
	}
	return total, nil
}

// History returns the most recent transactions first. limit <= 0 returns
// everything.
func (l *Ledger) History(userID string, limit int) ([]models.XPTransaction, error) {
	txs, err := l.store.ListXPTransactions(userID, limit)
	if err != nil {
		return nil, qerrors.Persistence("list xp transactions", err)
	}
	return txs, nil
}
