package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateByName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, created, err := f.users.GetOrCreateByName(ctx, "  Asha ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Asha", first.Name)
	assert.Zero(t, first.TotalScore)

	second, created, err := f.users.GetOrCreateByName(ctx, "Asha")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetOrCreateByNameIsCaseSensitive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	upper, created, err := f.users.GetOrCreateByName(ctx, "Asha")
	require.NoError(t, err)
	assert.True(t, created)

	lower, created, err := f.users.GetOrCreateByName(ctx, "asha")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, upper.ID, lower.ID)
	assert.Equal(t, "asha", lower.Name)

	again, created, err := f.users.GetOrCreateByName(ctx, "Asha")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, upper.ID, again.ID)
}

func TestGetOrCreateByNameValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, _, err := f.users.GetOrCreateByName(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = f.users.GetOrCreateByName(ctx, strings.Repeat("x", 65))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = f.users.GetOrCreateByName(ctx, strings.Repeat("é", 64))
	assert.NoError(t, err)
}

func TestUpdateGoal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Maya")

	require.NoError(t, f.users.UpdateGoal(ctx, user.ID, "<b>Lose 5kg</b> by June<script>alert(1)</script>"))
	got := f.reload(t, user.ID)
	require.NotNil(t, got.Goal)
	assert.Equal(t, "Lose 5kg by June", *got.Goal)

	require.NoError(t, f.users.UpdateGoal(ctx, user.ID, "   "))
	assert.Nil(t, f.reload(t, user.ID).Goal)

	assert.ErrorIs(t, f.users.UpdateGoal(ctx, user.ID, strings.Repeat("a", 501)), ErrInvalidInput)
	assert.ErrorIs(t, f.users.UpdateGoal(ctx, 999, "walk"), ErrNotFound)
}

func TestUpdateRealityCheckOverwritesAllFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Noor")

	weight, waist := 82.5, 94.0
	sys, dia, glucose := 130, 85, 110
	require.NoError(t, f.users.UpdateRealityCheck(ctx, user.ID, RealityCheck{
		Weight: &weight, Waist: &waist, BPSys: &sys, BPDia: &dia, Glucose: &glucose,
	}, "2024-03-01"))

	got := f.reload(t, user.ID)
	assert.True(t, got.HasRealityCheck())
	require.NotNil(t, got.Weight)
	assert.InDelta(t, 82.5, *got.Weight, 0.001)
	require.NotNil(t, got.BPSys)
	assert.Equal(t, 130, *got.BPSys)
	require.NotNil(t, got.LastRealityCheck)
	assert.Equal(t, "2024-03-01", *got.LastRealityCheck)

	newWeight := 80.0
	require.NoError(t, f.users.UpdateRealityCheck(ctx, user.ID, RealityCheck{Weight: &newWeight}, "2024-06-01"))
	got = f.reload(t, user.ID)
	assert.InDelta(t, 80.0, *got.Weight, 0.001)
	assert.Nil(t, got.Waist)
	assert.Nil(t, got.Glucose)
	assert.Equal(t, "2024-06-01", *got.LastRealityCheck)
}

func TestUpdateRealityCheckValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Ira")

	negative := -1.0
	assert.ErrorIs(t, f.users.UpdateRealityCheck(ctx, user.ID, RealityCheck{Weight: &negative}, "2024-03-01"), ErrInvalidInput)
	assert.ErrorIs(t, f.users.UpdateRealityCheck(ctx, user.ID, RealityCheck{}, "2024-3-1"), ErrInvalidInput)
	assert.ErrorIs(t, f.users.UpdateRealityCheck(ctx, 999, RealityCheck{}, "2024-03-01"), ErrNotFound)
	assert.False(t, f.reload(t, user.ID).HasRealityCheck())
}
