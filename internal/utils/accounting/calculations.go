package accounting

import (
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Deltas maps account ids to signed balance changes.
type Deltas map[string]decimal.Decimal

// Apply returns the signed effects of txn on every account it touches.
// INCOME credits the account, EXPENSE debits it, TRANSFER debits the source and credits the destination.
func Apply(txn domain.Transaction) Deltas {
	return Deltas(txn.Effects())
}

// Revert returns the inverse of Apply(txn).
func Revert(txn domain.Transaction) Deltas {
	effects := txn.Effects()
	out := make(Deltas, len(effects))
	for id, d := range effects {
		out[id] = d.Neg()
	}
	return out
}

// Merge nets several delta sets into one, dropping accounts whose net change is zero.
func Merge(sets ...Deltas) Deltas {
	out := make(Deltas)
	for _, set := range sets {
		for id, d := range set {
			out[id] = out[id].Add(d)
		}
	}
	for id, d := range out {
		if d.IsZero() {
			delete(out, id)
		}
	}
	return out
}
