package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SavingsGoal struct {
	GoalID        string          `db:"goal_id"`
	OwnerID       string          `db:"owner_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	IsCompleted   bool            `db:"is_completed"`
	Deadline      *time.Time      `db:"deadline"`
	AuditFields
}
