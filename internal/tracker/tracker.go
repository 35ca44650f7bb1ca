// Package tracker owns the in-memory ledger and keeps it mirrored to storage.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pftracker/internal/core"
	"pftracker/internal/log"
)

// ClearAllPrompt is the question put to the user before wiping the ledger.
const ClearAllPrompt = "Clear all transactions? This cannot be undone."

// Repository persists the full ledger.
type Repository interface {
	Save(ctx context.Context, txs []core.Transaction) error
	Load(ctx context.Context) []core.Transaction
}

// ConfirmFunc answers a yes/no question. Returning false cancels the action.
type ConfirmFunc func(prompt string) bool

// NewTransaction is the raw form input for a ledger entry.
type NewTransaction struct {
	Type     string
	Category string
	Amount   string
	Date     string
	Note     string
}

// SaveError reports that a mutation was applied in memory but not persisted.
type SaveError struct {
	Op  string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s: changes not saved: %v", e.Op, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// IsSaveError reports whether err carries a SaveError.
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}

// Tracker holds the ordered ledger, newest first.
type Tracker struct {
	mu     sync.Mutex
	repo   Repository
	txs    []core.Transaction
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

type Option func(*Tracker)

// WithClock overrides the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides how transaction ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates an empty tracker. Call Open to load the stored ledger.
func New(repo Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:   repo,
		txs:    []core.Transaction{},
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent(log.ComponentTracker)
	return t
}

// Open replaces the in-memory ledger with what storage holds.
func (t *Tracker) Open(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.txs = t.repo.Load(ctx)
	if t.txs == nil {
		t.txs = []core.Transaction{}
	}
	t.logger.InfoContext(ctx, "Ledger loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(t.txs))
}

// Add validates in, prepends the new transaction and saves the ledger.
// Invalid input, or an amount that would push the income or expense total
// past core.MaxTotalCents, leaves both memory and storage untouched.
func (t *Tracker) Add(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	typ, err := core.ParseType(in.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tx := core.Transaction{
		ID:       t.uniqueID(),
		Type:     typ,
		Category: core.NormalizeCategory(in.Category),
		Amount:   core.Money{Cents: cents},
		Date:     core.NormalizeDate(in.Date, t.now()),
		Note:     strings.TrimSpace(in.Note),
	}

	next := make([]core.Transaction, 0, len(t.txs)+1)
	next = append(next, tx)
	next = append(next, t.txs...)
	if err := core.CheckTotals(next); err != nil {
		return core.Transaction{}, err
	}
	t.txs = next

	t.logger.InfoContext(ctx, "Transaction added", log.NewFields().
		WithOperation(log.OpCreate).
		WithTransaction(tx.ID, tx.Type.String(), tx.Category, tx.Amount.Cents).
		ToSlice()...)

	return tx, t.persist(ctx, log.OpCreate)
}

// Delete removes the transaction with the given id, if any, and saves.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := make([]core.Transaction, 0, len(t.txs))
	for _, tx := range t.txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) != len(t.txs) {
		t.logger.InfoContext(ctx, "Transaction deleted", log.FieldOperation, log.OpDelete, log.FieldTxID, id)
	}
	t.txs = kept
	return t.persist(ctx, log.OpDelete)
}

// ClearAll empties the ledger once confirm agrees. It reports whether the
// ledger was cleared.
func (t *Tracker) ClearAll(ctx context.Context, confirm ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(ClearAllPrompt) {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.InfoContext(ctx, "Ledger cleared", log.FieldOperation, log.OpClear, log.FieldCount, len(t.txs))
	t.txs = []core.Transaction{}
	return true, t.persist(ctx, log.OpClear)
}

// SeedIfEmpty fills an empty ledger with a few demo transactions.
// It reports whether anything was inserted.
func (t *Tracker) SeedIfEmpty(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.txs) > 0 {
		return false, nil
	}
	t.txs = core.SampleTransactions(t.now(), t.uniqueID)
	t.logger.InfoContext(ctx, "Sample transactions inserted", log.FieldOperation, log.OpSeed, log.FieldCount, len(t.txs))
	return true, t.persist(ctx, log.OpSeed)
}

// Snapshot returns a copy of the ledger, newest first.
func (t *Tracker) Snapshot() []core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.Transaction, len(t.txs))
	copy(out, t.txs)
	return out
}

// persist must be called with mu held.
func (t *Tracker) persist(ctx context.Context, op string) error {
	if err := t.repo.Save(ctx, t.txs); err != nil {
		t.logger.ErrorContext(ctx, "Ledger save failed", log.FieldOperation, op, log.FieldError, err)
		return &SaveError{Op: op, Err: err}
	}
	return nil
}

// uniqueID must be called with mu held.
func (t *Tracker) uniqueID() string {
	for {
		id := t.newID()
		if id != "" && !t.hasID(id) {
			return id
		}
	}
}

func (t *Tracker) hasID(id string) bool {
	for _, tx := range t.txs {
		if tx.ID == id {
			return true
		}
	}
	return false
}
