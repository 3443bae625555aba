package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drpal/commandments/metrics"
	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/utils"
)

// SubmitResult describes a successful scored submission.
type SubmitResult struct {
	Day        string `json:"date"`
	Score      int    `json:"score"`
	Streak     int    `json:"streak"`
	TotalScore int    `json:"total_score"`
}

// Reconciliation reports the aggregate drift found and repaired for one user.
type Reconciliation struct {
	UserID       uint `json:"user_id"`
	StoredScore  int  `json:"stored_score"`
	LogScore     int  `json:"log_score"`
	StoredStreak int  `json:"stored_streak"`
	LogStreak    int  `json:"log_streak"`
}

// Drifted reports whether the stored aggregate disagreed with the log history.
func (r Reconciliation) Drifted() bool {
	return r.StoredScore != r.LogScore || r.StoredStreak != r.LogStreak
}

// Engine runs the daily scoring transaction and the other writes that touch daily logs.
type Engine struct {
	db      *gorm.DB
	users   *UserStore
	logs    *DailyLogStore
	cache   Cache
	timeout time.Duration
}

// NewEngine wires an engine. cache may be nil.
func NewEngine(db *gorm.DB, users *UserStore, logs *DailyLogStore, cache Cache, timeout time.Duration) *Engine {
	return &Engine{db: db, users: users, logs: logs, cache: cache, timeout: timeout}
}

// SubmitDay fixes the day's score and completed habits and advances the user's aggregate.
// Either both the daily log and the aggregate change, or neither does.
func (e *Engine) SubmitDay(ctx context.Context, userID uint, day string, completedIDs []int) (*SubmitResult, error) {
	if _, err := ParseDay(day); err != nil {
		metrics.RecordSubmission("invalid", 0)
		return nil, err
	}
	ids, err := models.NormalizeHabitIDs(completedIDs)
	if err != nil {
		metrics.RecordSubmission("invalid", 0)
		return nil, invalidf("%v", err)
	}
	if len(ids) == 0 {
		metrics.RecordSubmission("invalid", 0)
		return nil, invalidf("at least one completed habit is required")
	}
	score := models.ScoreFor(ids)

	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	var result SubmitResult
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := e.users.WithTx(tx)
		logs := e.logs.WithTx(tx)

		// Lock the user first so concurrent submissions for one user queue up here
		user, err := users.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := logs.TrySetScore(ctx, userID, day, score, ids); err != nil {
			return err
		}

		streak := NextStreak(user.Streak, user.LastActiveDate, day)
		if err := users.IncrementScoreAndSetStreak(ctx, userID, score, streak, day); err != nil {
			return err
		}

		result = SubmitResult{
			Day:        day,
			Score:      score,
			Streak:     streak,
			TotalScore: user.TotalScore + score,
		}
		return nil
	})
	if err != nil {
		err = storageErr("submit day", err)
		switch {
		case errors.Is(err, ErrAlreadySubmitted):
			metrics.RecordSubmission("duplicate", 0)
		case errors.Is(err, ErrNotFound):
			metrics.RecordSubmission("unknown_user", 0)
		default:
			metrics.RecordSubmission("error", 0)
			utils.Logger.Error("submission failed", zap.Uint("user_id", userID), zap.String("day", day), zap.Error(err))
		}
		return nil, err
	}

	metrics.RecordSubmission("ok", score)
	utils.Logger.Info("day submitted",
		zap.Uint("user_id", userID),
		zap.String("day", day),
		zap.Int("score", score),
		zap.Int("streak", result.Streak),
	)
	e.invalidateLeaderboard(ctx)
	return &result, nil
}

// AddWater adds amount millilitres to the user's hydration for day and returns the day's total.
func (e *Engine) AddWater(ctx context.Context, userID uint, day string, amount int) (int, error) {
	total, err := e.logs.UpsertWater(ctx, userID, day, amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
			metrics.RecordWater("rejected")
		default:
			metrics.RecordWater("error")
			utils.Logger.Error("water update failed", zap.Uint("user_id", userID), zap.String("day", day), zap.Error(err))
		}
		return 0, err
	}
	metrics.RecordWater("ok")
	return total, nil
}

// Reconcile recomputes a user's lifetime score and streak from the daily logs, stores
// them, and reports what was found.
func (e *Engine) Reconcile(ctx context.Context, userID uint) (*Reconciliation, error) {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	var rec Reconciliation
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := e.users.WithTx(tx)
		logs := e.logs.WithTx(tx)

		user, err := users.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		sum, err := logs.SumScores(ctx, userID)
		if err != nil {
			return err
		}
		days, err := logs.ScoredDays(ctx, userID)
		if err != nil {
			return err
		}

		streak, _ := ReplayStreak(days)

		rec = Reconciliation{
			UserID:       userID,
			StoredScore:  user.TotalScore,
			LogScore:     sum,
			StoredStreak: user.Streak,
			LogStreak:    streak,
		}
		if !rec.Drifted() {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_score": sum,
			"streak":      streak,
		}).Error
	})
	if err != nil {
		return nil, storageErr("reconcile", err)
	}
	if rec.Drifted() {
		utils.Logger.Warn("aggregate drift repaired",
			zap.Uint("user_id", userID),
			zap.Int("stored_score", rec.StoredScore),
			zap.Int("log_score", rec.LogScore),
			zap.Int("stored_streak", rec.StoredStreak),
			zap.Int("log_streak", rec.LogStreak),
		)
		e.invalidateLeaderboard(ctx)
	}
	return &rec, nil
}

// ReconcileAll reconciles every user and returns only the drifted ones.
func (e *Engine) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	ids, err := e.users.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	drifted := []Reconciliation{}
	for _, id := range ids {
		rec, err := e.Reconcile(ctx, id)
		if err != nil {
			return drifted, err
		}
		if rec.Drifted() {
			drifted = append(drifted, *rec)
		}
	}
	return drifted, nil
}

func (e *Engine) invalidateLeaderboard(ctx context.Context) {
	if e.cache == nil {
		return
	}
	invalidateLeaderboardCache(ctx, e.cache)
}
