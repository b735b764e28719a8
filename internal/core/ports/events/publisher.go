package events

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// Publisher delivers committed ledger events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.LedgerEvent) error { return nil }
