package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"pftracker/internal/core"
	"pftracker/internal/log"
)

// DefaultKey is the versioned key the ledger lives under.
const DefaultKey = "pf_tx_v1"

// TransactionRepository saves and loads the whole ledger as one JSON array.
type TransactionRepository struct {
	kv     KV
	key    string
	logger *log.Logger
}

func NewTransactionRepository(kv KV, key string, logger *log.Logger) *TransactionRepository {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionRepository{kv: kv, key: key, logger: logger.WithComponent(log.ComponentStorage)}
}

// Key returns the storage key in use.
func (r *TransactionRepository) Key() string {
	return r.key
}

// Save overwrites the stored entry with txs, newest first.
func (r *TransactionRepository) Save(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

// Load returns the stored ledger. Any problem reading it, including a missing
// entry, yields an empty list; the stored value is left as is.
func (r *TransactionRepository) Load(ctx context.Context) []core.Transaction {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		r.logger.WarnContext(ctx, "Read of stored ledger failed, starting empty",
			log.FieldStorageKey, r.key, log.FieldError, err)
		return []core.Transaction{}
	}
	if !found {
		r.logger.DebugContext(ctx, "No stored ledger, starting empty", log.FieldStorageKey, r.key)
		return []core.Transaction{}
	}

	txs, err := decodeTransactions(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "Stored ledger is corrupt, starting empty",
			log.FieldStorageKey, r.key, log.FieldError, err)
		return []core.Transaction{}
	}
	return txs
}

// Raw returns the serialized ledger exactly as stored, or "[]" when absent.
func (r *TransactionRepository) Raw(ctx context.Context) (string, error) {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return "", fmt.Errorf("read transactions: %w", err)
	}
	if !found {
		return "[]", nil
	}
	return raw, nil
}

func decodeTransactions(raw string) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	if txs == nil {
		// A literal null is not a ledger.
		return nil, fmt.Errorf("decode transactions: not an array")
	}

	seen := make(map[string]struct{}, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, dup := seen[tx.ID]; dup {
			return nil, fmt.Errorf("transaction %d: duplicate id %q", i, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
	if err := core.CheckTotals(txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}
