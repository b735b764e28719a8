package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxGoalAmount bounds target and contribution amounts.
var MaxGoalAmount = decimal.RequireFromString("999999999.99")

// SavingsGoal tracks progress toward a target amount, independent of the ledger.
type SavingsGoal struct {
	GoalID        string          `json:"goalID"`
	OwnerID       string          `json:"ownerID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	IsCompleted   bool            `json:"isCompleted"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	AuditFields
}

// Reached reports whether the current amount meets the target.
func (g SavingsGoal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Remaining returns how much is left to reach the target, never negative.
func (g SavingsGoal) Remaining() decimal.Decimal {
	left := g.TargetAmount.Sub(g.CurrentAmount)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}
