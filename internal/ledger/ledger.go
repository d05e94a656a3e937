// Package ledger runs the settlement lifecycle of a household and guards
// expense changes against finalized periods.
//
// A Ledger serializes every write for one household behind a per-household
// lock, so opening a settlement never races with another open, a finalize,
// or a half-written expense. Different households proceed in parallel.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/internal/storage"
)

// DefaultHistoryLimit is the page size of History when the caller passes none.
const DefaultHistoryLimit = 25

// maxHistoryLimit caps a single History page.
const maxHistoryLimit = 200

// Recorder receives lifecycle events, typically for metrics.
type Recorder interface {
	SettlementOpened(householdID string, transfers int)
	SettlementFinalized(householdID string)
	SettlementRejected(reason string)
	ExpenseChanged(op string)
}

type nopRecorder struct{}

func (nopRecorder) SettlementOpened(string, int) {}
func (nopRecorder) SettlementFinalized(string)   {}
func (nopRecorder) SettlementRejected(string)    {}
func (nopRecorder) ExpenseChanged(string)        {}

// Ledger is the settlement manager and expense guard of every household.
type Ledger struct {
	store        storage.Store
	locks        *householdLocks
	now          func() time.Time
	recorder     Recorder
	historyLimit int
	logger       *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRecorder installs a lifecycle event recorder.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithHistoryLimit sets the default History page size.
func WithHistoryLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.historyLimit = n
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		locks:        newHouseholdLocks(),
		now:          time.Now,
		recorder:     nopRecorder{},
		historyLimit: DefaultHistoryLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) clock() time.Time {
	return l.now().UTC()
}

// baseline returns the start of the household's current accounting period:
// the period end of the latest finalized settlement, or the household's
// creation time.
func (l *Ledger) baseline(ctx context.Context, household *models.Household) (time.Time, error) {
	latest, err := l.store.LatestFinalizedSettlement(ctx, household.ID)
	if err != nil {
		return time.Time{}, err
	}
	if latest != nil {
		return latest.PeriodEnd, nil
	}
	return household.CreatedAt, nil
}
