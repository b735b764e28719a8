package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
)

// lockTable hands out one exclusive lock per row key. A lock is a buffered
// channel of capacity one: sending acquires, receiving releases.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]chan struct{})}
}

func (lt *lockTable) slot(key string) chan struct{} {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	ch, ok := lt.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		lt.locks[key] = ch
	}
	return ch
}

// acquire blocks until the lock is free or ctx is done.
func (lt *lockTable) acquire(ctx context.Context, key string) error {
	select {
	case lt.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for lock on %s: %w", apperrors.ErrConflict, key, ctx.Err())
	}
}

func (lt *lockTable) release(key string) {
	<-lt.slot(key)
}

func accountKey(id string) string { return "account:" + id }
func txnKey(id string) string     { return "transaction:" + id }
func goalKey(id string) string    { return "goal:" + id }

// sortedUnique returns ids in ascending order without duplicates.
func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
