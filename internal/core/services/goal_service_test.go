package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalService_CompletesAtExactTarget(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Bike", TargetAmount: dec("100.00")})
	require.NoError(t, err)
	assert.False(t, goal.IsCompleted)

	goal, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("60.00"))
	require.NoError(t, err)
	assert.False(t, goal.IsCompleted)
	assert.True(t, goal.Remaining().Equal(dec("40")))

	goal, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("40.00"))
	require.NoError(t, err)
	assert.True(t, goal.IsCompleted)

	_, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("1.00"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := f.goals.GetGoal(ctx, ownerID, goal.GoalID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentAmount.Equal(dec("100")))
	assert.Contains(t, f.publisher.types(), domain.EventGoalContributed)
}

func TestGoalService_OvershootCompletes(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Trip", TargetAmount: dec("50.00")})
	require.NoError(t, err)

	goal, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("80.00"))
	require.NoError(t, err)
	assert.True(t, goal.IsCompleted)
	assert.True(t, goal.CurrentAmount.Equal(dec("80")))
	assert.True(t, goal.Remaining().IsZero())
}

func TestGoalService_RejectsBadAmounts(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Car", TargetAmount: dec("5000")})
	require.NoError(t, err)

	for _, amount := range []string{"0", "-1", "0.001", "1000000000"} {
		_, err := f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec(amount))
		assert.ErrorIs(t, err, apperrors.ErrValidation, amount)
	}
	_, err = f.goals.ContributeToGoal(ctx, "intruder", goal.GoalID, dec("1"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: " ", TargetAmount: dec("1")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGoalService_ConcurrentContributions(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Fund", TargetAmount: dec("1000")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("10"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.goals.GetGoal(ctx, ownerID, goal.GoalID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentAmount.Equal(dec("300")))
}

func TestGoalService_ListOpenFirst(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	done, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Done", TargetAmount: dec("1"), CurrentAmount: dec("1")})
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	_, err = f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Open", TargetAmount: dec("10")})
	require.NoError(t, err)

	goals, err := f.goals.ListGoals(ctx, ownerID, nil)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Open", goals[0].Name)

	completed := true
	goals, err = f.goals.ListGoals(ctx, ownerID, &completed)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Done", goals[0].Name)
}

func TestGoalService_UpdateRederivesCompletion(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Laptop", TargetAmount: dec("1000"), CurrentAmount: dec("600")})
	require.NoError(t, err)
	require.False(t, goal.IsCompleted)

	lower := dec("500")
	goal, err = f.goals.UpdateGoal(ctx, ownerID, goal.GoalID, dto.UpdateSavingsGoalRequest{TargetAmount: &lower})
	require.NoError(t, err)
	assert.True(t, goal.IsCompleted)
	assert.True(t, goal.CurrentAmount.Equal(dec("600")))

	_, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("1"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	higher := dec("800")
	goal, err = f.goals.UpdateGoal(ctx, ownerID, goal.GoalID, dto.UpdateSavingsGoalRequest{TargetAmount: &higher})
	require.NoError(t, err)
	assert.False(t, goal.IsCompleted)

	goal, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("200"))
	require.NoError(t, err)
	assert.True(t, goal.IsCompleted)

	stored, err := f.goals.GetGoal(ctx, ownerID, goal.GoalID)
	require.NoError(t, err)
	assert.True(t, stored.TargetAmount.Equal(dec("800")))
	assert.True(t, stored.CurrentAmount.Equal(dec("800")))
	assert.Contains(t, f.publisher.types(), domain.EventGoalUpdated)
}

func TestGoalService_UpdateEditsDetails(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	deadline := fixedNow.AddDate(0, 6, 0)
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Trip", TargetAmount: dec("300"), Deadline: &deadline})
	require.NoError(t, err)

	name := "  Summer trip "
	goal, err = f.goals.UpdateGoal(ctx, ownerID, goal.GoalID, dto.UpdateSavingsGoalRequest{
		Name:     &name,
		Deadline: dto.OptionalTime{Set: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer trip", goal.Name)
	assert.Nil(t, goal.Deadline)
	assert.True(t, goal.TargetAmount.Equal(dec("300")))

	blank := " "
	negative := dec("-5")
	for _, req := range []dto.UpdateSavingsGoalRequest{
		{Name: &blank},
		{CurrentAmount: &negative},
		{TargetAmount: &negative},
	} {
		_, err := f.goals.UpdateGoal(ctx, ownerID, goal.GoalID, req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
	_, err = f.goals.UpdateGoal(ctx, "intruder", goal.GoalID, dto.UpdateSavingsGoalRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGoalService_UpdateDoesNotLoseContributions(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Fund", TargetAmount: dec("1000")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("10"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			desc := "renamed"
			_, err := f.goals.UpdateGoal(ctx, ownerID, goal.GoalID, dto.UpdateSavingsGoalRequest{Description: &desc})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.goals.GetGoal(ctx, ownerID, goal.GoalID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentAmount.Equal(dec("200")))
	assert.Equal(t, "renamed", stored.Description)
}

func TestGoalService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	goal, err := f.goals.CreateGoal(ctx, ownerID, dto.CreateSavingsGoalRequest{Name: "Old", TargetAmount: dec("10")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.goals.DeleteGoal(ctx, "intruder", goal.GoalID), apperrors.ErrNotFound)
	require.NoError(t, f.goals.DeleteGoal(ctx, ownerID, goal.GoalID))

	_, err = f.goals.GetGoal(ctx, ownerID, goal.GoalID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.goals.ContributeToGoal(ctx, ownerID, goal.GoalID, dec("1"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, f.goals.DeleteGoal(ctx, ownerID, goal.GoalID), apperrors.ErrNotFound)
	assert.Contains(t, f.publisher.types(), domain.EventGoalDeleted)
}
