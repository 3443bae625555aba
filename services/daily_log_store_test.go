package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drpal/commandments/models"
)

func TestUpsertWaterIsCommutative(t *testing.T) {
	orders := [][]int{
		{250, 500, 250},
		{500, 250, 250},
		{250, 250, 500},
	}
	for _, order := range orders {
		f := newFixture(t, nil)
		ctx := context.Background()
		user := f.mustUser(t, "Nila")

		var total int
		var err error
		for _, amount := range order {
			total, err = f.logs.UpsertWater(ctx, user.ID, "2024-03-01", amount)
			require.NoError(t, err)
		}
		assert.Equal(t, 1000, total, "order %v", order)
	}
}

func TestUpsertWaterConcurrent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Ishaan")

	amounts := []int{250, 500, 250, 100, 400, 300, 200}
	var wg sync.WaitGroup
	errs := make(chan error, len(amounts))
	for _, amount := range amounts {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			if _, err := f.logs.UpsertWater(ctx, user.ID, "2024-03-01", a); err != nil {
				errs <- err
			}
		}(amount)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	log, err := f.logs.Get(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2000, log.WaterIntake)
	assert.Zero(t, log.Score)
}

func TestUpsertWaterRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Zoya")

	_, err := f.logs.UpsertWater(ctx, user.ID, "2024-03-01", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.logs.UpsertWater(ctx, user.ID, "2024-03-01", -250)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.logs.UpsertWater(ctx, user.ID, "March 1", 250)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.logs.UpsertWater(ctx, 404, "2024-03-01", 250)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.logs.Get(ctx, user.ID, "2024-03-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaterIsPerDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Leela")

	_, err := f.logs.UpsertWater(ctx, user.ID, "2024-03-01", 300)
	require.NoError(t, err)
	total, err := f.logs.UpsertWater(ctx, user.ID, "2024-03-02", 200)
	require.NoError(t, err)
	assert.Equal(t, 200, total)
}

func TestTrySetScoreCompareAndSwap(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Arjun")

	require.NoError(t, f.logs.TrySetScore(ctx, user.ID, "2024-03-01", 20, []int{1, 2}))
	assert.ErrorIs(t, f.logs.TrySetScore(ctx, user.ID, "2024-03-01", 30, []int{3, 4, 5}), ErrAlreadySubmitted)
	assert.ErrorIs(t, f.logs.TrySetScore(ctx, user.ID, "2024-03-02", 0, []int{}), ErrInvalidInput)

	log, err := f.logs.Get(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 20, log.Score)
	assert.Equal(t, []int{1, 2}, []int(log.CompletedIDs))
}

func TestListByUserOrdering(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Rhea")
	other := f.mustUser(t, "Vik")

	for _, day := range []string{"2024-03-02", "2024-02-28", "2024-03-01"} {
		_, err := f.engine.SubmitDay(ctx, user.ID, day, []int{1})
		require.NoError(t, err)
	}
	_, err := f.engine.SubmitDay(ctx, other.ID, "2024-03-03", []int{1})
	require.NoError(t, err)

	logs, err := f.logs.ListByUser(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "2024-03-02", logs[0].Day)
	assert.Equal(t, "2024-03-01", logs[1].Day)
	assert.Equal(t, "2024-02-28", logs[2].Day)

	logs, err = f.logs.ListByUser(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", logs[0].Day)

	sum, err := f.logs.SumScores(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, sum)
}

func TestScoredDaysInSubmissionOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.mustUser(t, "Dev")

	base := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	for i, day := range []string{"2024-01-10", "2024-01-09", "2024-01-11", "2024-01-05"} {
		require.NoError(t, f.logs.TrySetScore(ctx, user.ID, day, 10, []int{1}))
		require.NoError(t, f.db.Model(&models.DailyLog{}).
			Where("user_id = ? AND day = ?", user.ID, day).
			Update("scored_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	// rows scored before submission times were recorded replay first, by day
	require.NoError(t, f.db.Model(&models.DailyLog{}).
		Where("user_id = ? AND day = ?", user.ID, "2024-01-05").
		Update("scored_at", nil).Error)
	_, err := f.logs.UpsertWater(ctx, user.ID, "2024-01-12", 250)
	require.NoError(t, err)

	days, err := f.logs.ScoredDays(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-09", "2024-01-11"}, days)

	log, err := f.logs.Get(ctx, user.ID, "2024-01-11")
	require.NoError(t, err)
	require.NotNil(t, log.ScoredAt)

	watered, err := f.logs.Get(ctx, user.ID, "2024-01-12")
	require.NoError(t, err)
	assert.Nil(t, watered.ScoredAt)
}
