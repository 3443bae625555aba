package services

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drpal/commandments/models"
)

// DailyLogStore persists per-(user, day) records.
type DailyLogStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewDailyLogStore creates a store; timeout bounds every call that does not already run in a transaction.
func NewDailyLogStore(db *gorm.DB, timeout time.Duration) *DailyLogStore {
	return &DailyLogStore{db: db, timeout: timeout}
}

// WithTx returns a copy of the store bound to tx.
func (s *DailyLogStore) WithTx(tx *gorm.DB) *DailyLogStore {
	return &DailyLogStore{db: tx, timeout: s.timeout}
}

func (s *DailyLogStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// UpsertWater adds delta millilitres to the day's hydration total, creating the row when
// absent, and returns the new total. The addition happens in SQL so concurrent callers
// never overwrite each other.
func (s *DailyLogStore) UpsertWater(ctx context.Context, userID uint, day string, delta int) (int, error) {
	if delta <= 0 {
		return 0, invalidf("water amount must be positive, got %d", delta)
	}
	if _, err := ParseDay(day); err != nil {
		return 0, err
	}

	db, cancel := s.session(ctx)
	defer cancel()

	var total int
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}

		row := models.DailyLog{
			UserID:       userID,
			Day:          day,
			WaterIntake:  delta,
			CompletedIDs: datatypes.NewJSONSlice([]int{}),
		}
		// Atomic upsert; the qualified column keeps the expression unambiguous on every dialect
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"water_intake": gorm.Expr("daily_logs.water_intake + ?", delta),
				"updated_at":   time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.Model(&models.DailyLog{}).
			Where("user_id = ? AND day = ?", userID, day).
			Select("water_intake").
			Scan(&total).Error
	})
	if err != nil {
		return 0, storageErr("upsert water", err)
	}
	return total, nil
}

// TrySetScore records the day's one scored submission. It fails with ErrAlreadySubmitted,
// changing nothing, when the day already carries a score. Water intake is preserved.
func (s *DailyLogStore) TrySetScore(ctx context.Context, userID uint, day string, score int, completedIDs []int) error {
	if score <= 0 {
		return invalidf("score must be positive, got %d", score)
	}
	if _, err := ParseDay(day); err != nil {
		return err
	}

	db, cancel := s.session(ctx)
	defer cancel()

	seed := models.DailyLog{UserID: userID, Day: day, CompletedIDs: datatypes.NewJSONSlice([]int{})}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return storageErr("seed daily log", err)
	}

	// Compare-and-swap on score: only an unscored row can be claimed
	res := db.Model(&models.DailyLog{}).
		Where("user_id = ? AND day = ? AND score = 0", userID, day).
		Updates(map[string]interface{}{
			"score":         score,
			"completed_ids": datatypes.NewJSONSlice(completedIDs),
			"scored_at":     time.Now(),
		})
	if res.Error != nil {
		return storageErr("set score", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadySubmitted
	}
	return nil
}

// Get returns the log for one day or ErrNotFound.
func (s *DailyLogStore) Get(ctx context.Context, userID uint, day string) (*models.DailyLog, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var log models.DailyLog
	if err := db.Where("user_id = ? AND day = ?", userID, day).First(&log).Error; err != nil {
		return nil, storageErr("get daily log", err)
	}
	return &log, nil
}

// ListByUser returns every log of the user ordered by day.
func (s *DailyLogStore) ListByUser(ctx context.Context, userID uint, newestFirst bool) ([]models.DailyLog, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	order := "day ASC"
	if newestFirst {
		order = "day DESC"
	}
	logs := []models.DailyLog{}
	if err := db.Where("user_id = ?", userID).Order(order).Find(&logs).Error; err != nil {
		return nil, storageErr("list daily logs", err)
	}
	return logs, nil
}

// ScoredDays returns the days on which the user has a nonzero score in submission order.
// Rows scored before scored_at existed come first, by day.
func (s *DailyLogStore) ScoredDays(ctx context.Context, userID uint) ([]string, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	days := []string{}
	if err := db.Model(&models.DailyLog{}).
		Where("user_id = ? AND score > 0", userID).
		Order("CASE WHEN scored_at IS NULL THEN 0 ELSE 1 END").
		Order("scored_at ASC").
		Order("day ASC").
		Pluck("day", &days).Error; err != nil {
		return nil, storageErr("list scored days", err)
	}
	return days, nil
}

// SumScores returns the sum of all daily scores for the user.
func (s *DailyLogStore) SumScores(ctx context.Context, userID uint) (int, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var sum int
	if err := db.Model(&models.DailyLog{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(score),0)").
		Scan(&sum).Error; err != nil {
		return 0, storageErr("sum scores", err)
	}
	return sum, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
