package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxGoalNameLength        = 100
	maxGoalDescriptionLength = 500
)

type goalService struct {
	BaseService
	goals     portsrepo.GoalRepositoryFacade
	txManager portsrepo.TransactionManager
	publisher events.Publisher
	retry     RetryPolicy
	now       func() time.Time
}

// GoalServiceOption is a functional option for configuring the goal service
type GoalServiceOption func(*goalService)

func WithGoalPublisher(p events.Publisher) GoalServiceOption {
	return func(s *goalService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithGoalRetryPolicy(p RetryPolicy) GoalServiceOption {
	return func(s *goalService) {
		s.retry = p
	}
}

func WithGoalClock(now func() time.Time) GoalServiceOption {
	return func(s *goalService) {
		s.now = now
	}
}

// NewGoalService creates the savings goal mutator. Contributions lock the goal row
// the same way the ledger locks accounts.
func NewGoalService(goals portsrepo.GoalRepositoryFacade, txManager portsrepo.TransactionManager, opts ...GoalServiceOption) portssvc.GoalSvcFacade {
	s := &goalService{
		goals:     goals,
		txManager: txManager,
		publisher: events.NopPublisher{},
		retry:     DefaultRetryPolicy,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func (s *goalService) CreateGoal(ctx context.Context, ownerID string, req dto.CreateSavingsGoalRequest) (*domain.SavingsGoal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxGoalNameLength {
		return nil, apperrors.Validationf("name must be between 1 and %d characters", maxGoalNameLength)
	}
	if utf8.RuneCountInString(req.Description) > maxGoalDescriptionLength {
		return nil, apperrors.Validationf("description cannot exceed %d characters", maxGoalDescriptionLength)
	}
	if err := validateGoalAmount("targetAmount", req.TargetAmount); err != nil {
		return nil, err
	}
	if req.CurrentAmount.IsNegative() {
		return nil, apperrors.Validationf("currentAmount cannot be negative")
	}
	if !req.CurrentAmount.IsZero() {
		if err := validateGoalAmount("currentAmount", req.CurrentAmount); err != nil {
			return nil, err
		}
	}

	now := s.now()
	goal := domain.SavingsGoal{
		GoalID:        uuid.NewString(),
		OwnerID:       ownerID,
		Name:          name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		AuditFields:   domain.NewAuditFields(ownerID, now),
	}
	goal.IsCompleted = goal.Reached()

	if err := s.goals.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save savings goal")
		return nil, err
	}
	s.LogInfo(ctx, "Savings goal created", slog.String("goal_id", goal.GoalID))
	return &goal, nil
}

func (s *goalService) GetGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error) {
	goal, err := s.goals.FindGoalByID(ctx, ownerID, goalID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get savings goal", slog.String("goal_id", goalID))
		return nil, err
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, ownerID string, completed *bool) ([]domain.SavingsGoal, error) {
	goals, err := s.goals.ListGoals(ctx, ownerID, completed)
	if err != nil {
		s.LogError(ctx, err, "Failed to list savings goals")
		return nil, err
	}
	return goals, nil
}

// ContributeToGoal allows overshooting the target; the goal then completes and
// rejects any further contribution.
func (s *goalService) ContributeToGoal(ctx context.Context, ownerID, goalID string, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	if err := validateGoalAmount("amount", amount); err != nil {
		return nil, err
	}

	goal, err := withConflictRetry(ctx, &s.BaseService, s.retry, "contribute to goal", func(ctx context.Context) (*domain.SavingsGoal, error) {
		uow, err := s.txManager.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer rollback(ctx, &s.BaseService, uow)

		goal, err := uow.LockGoal(ctx, ownerID, goalID)
		if err != nil {
			return nil, err
		}
		if goal.IsCompleted {
			return nil, apperrors.Validationf("savings goal %s is already completed", goalID)
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		goal.IsCompleted = goal.Reached()
		goal.Touch(ownerID, s.now())

		if err := uow.UpdateGoalProgress(ctx, *goal); err != nil {
			return nil, err
		}
		if err := uow.Commit(ctx); err != nil {
			return nil, err
		}
		return goal, nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to contribute to savings goal", slog.String("goal_id", goalID))
		return nil, err
	}

	s.LogInfo(ctx, "Savings goal contribution applied",
		slog.String("goal_id", goalID),
		slog.String("amount", amount.String()),
		slog.Bool("completed", goal.IsCompleted))
	publishEvent(ctx, &s.BaseService, s.publisher, domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventGoalContributed,
		OwnerID:    ownerID,
		EntityID:   goalID,
		OccurredAt: s.now(),
	})
	return goal, nil
}

// UpdateGoal recomputes completion from the edited amounts. A completed goal
// whose target is raised above its current amount is open again.
func (s *goalService) UpdateGoal(ctx context.Context, ownerID, goalID string, req dto.UpdateSavingsGoalRequest) (*domain.SavingsGoal, error) {
	if err := validateGoalPatch(req); err != nil {
		return nil, err
	}

	goal, err := withConflictRetry(ctx, &s.BaseService, s.retry, "update goal", func(ctx context.Context) (*domain.SavingsGoal, error) {
		uow, err := s.txManager.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer rollback(ctx, &s.BaseService, uow)

		goal, err := uow.LockGoal(ctx, ownerID, goalID)
		if err != nil {
			return nil, err
		}
		if req.Name != nil {
			goal.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			goal.Description = *req.Description
		}
		if req.TargetAmount != nil {
			goal.TargetAmount = *req.TargetAmount
		}
		if req.CurrentAmount != nil {
			goal.CurrentAmount = *req.CurrentAmount
		}
		goal.Deadline = req.Deadline.Apply(goal.Deadline)
		goal.IsCompleted = goal.Reached()
		goal.Touch(ownerID, s.now())

		if err := uow.UpdateGoal(ctx, *goal); err != nil {
			return nil, err
		}
		if err := uow.Commit(ctx); err != nil {
			return nil, err
		}
		return goal, nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update savings goal", slog.String("goal_id", goalID))
		return nil, err
	}

	s.LogInfo(ctx, "Savings goal updated", slog.String("goal_id", goalID), slog.Bool("completed", goal.IsCompleted))
	publishEvent(ctx, &s.BaseService, s.publisher, domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventGoalUpdated,
		OwnerID:    ownerID,
		EntityID:   goalID,
		OccurredAt: s.now(),
	})
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	_, err := withConflictRetry(ctx, &s.BaseService, s.retry, "delete goal", func(ctx context.Context) (struct{}, error) {
		uow, err := s.txManager.Begin(ctx)
		if err != nil {
			return struct{}{}, err
		}
		defer rollback(ctx, &s.BaseService, uow)

		if _, err := uow.LockGoal(ctx, ownerID, goalID); err != nil {
			return struct{}{}, err
		}
		if err := uow.DeleteGoal(ctx, ownerID, goalID); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, uow.Commit(ctx)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete savings goal", slog.String("goal_id", goalID))
		return err
	}

	s.LogInfo(ctx, "Savings goal deleted", slog.String("goal_id", goalID))
	publishEvent(ctx, &s.BaseService, s.publisher, domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventGoalDeleted,
		OwnerID:    ownerID,
		EntityID:   goalID,
		OccurredAt: s.now(),
	})
	return nil
}

func validateGoalPatch(req dto.UpdateSavingsGoalRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > maxGoalNameLength {
			return apperrors.Validationf("name must be between 1 and %d characters", maxGoalNameLength)
		}
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxGoalDescriptionLength {
		return apperrors.Validationf("description cannot exceed %d characters", maxGoalDescriptionLength)
	}
	if req.TargetAmount != nil {
		if err := validateGoalAmount("targetAmount", *req.TargetAmount); err != nil {
			return err
		}
	}
	if req.CurrentAmount != nil {
		if req.CurrentAmount.IsNegative() {
			return apperrors.Validationf("currentAmount cannot be negative")
		}
		if !req.CurrentAmount.IsZero() {
			if err := validateGoalAmount("currentAmount", *req.CurrentAmount); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateGoalAmount(field string, amount decimal.Decimal) error {
	if amount.LessThan(domain.MinAmount) {
		return apperrors.Validationf("%s must be at least %s", field, domain.MinAmount.StringFixed(domain.MoneyScale))
	}
	if !amount.Equal(amount.Truncate(domain.MoneyScale)) {
		return apperrors.Validationf("%s cannot have more than %d decimal places", field, domain.MoneyScale)
	}
	if amount.GreaterThan(domain.MaxGoalAmount) {
		return apperrors.Validationf("%s cannot exceed %s", field, domain.MaxGoalAmount.StringFixed(domain.MoneyScale))
	}
	return nil
}
