package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEventType names a committed mutation.
type LedgerEventType string

const (
	EventTransactionCreated LedgerEventType = "transaction.created"
	EventTransactionUpdated LedgerEventType = "transaction.updated"
	EventTransactionDeleted LedgerEventType = "transaction.deleted"
	EventTransferCompleted  LedgerEventType = "transfer.completed"
	EventGoalContributed    LedgerEventType = "goal.contributed"
	EventGoalUpdated        LedgerEventType = "goal.updated"
	EventGoalDeleted        LedgerEventType = "goal.deleted"
)

// LedgerEvent describes a committed mutation and the net balance changes it applied.
type LedgerEvent struct {
	EventID    string                     `json:"eventID"`
	Type       LedgerEventType            `json:"type"`
	OwnerID    string                     `json:"ownerID"`
	EntityID   string                     `json:"entityID"`
	Deltas     map[string]decimal.Decimal `json:"deltas,omitempty"`
	OccurredAt time.Time                  `json:"occurredAt"`
}
