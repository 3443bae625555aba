package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/utils"
)

const (
	maxNameRunes = 64
	maxGoalRunes = 500
)

// RealityCheck carries the biometrics of one reality check. Nil fields are stored as NULL.
type RealityCheck struct {
	Weight  *float64 `json:"weight"`
	Waist   *float64 `json:"waist"`
	BPSys   *int     `json:"bp_sys"`
	BPDia   *int     `json:"bp_dia"`
	Glucose *int     `json:"glucose"`
}

func (r RealityCheck) validate() error {
	if r.Weight != nil && *r.Weight <= 0 {
		return invalidf("weight must be positive")
	}
	if r.Waist != nil && *r.Waist <= 0 {
		return invalidf("waist must be positive")
	}
	if r.BPSys != nil && *r.BPSys <= 0 {
		return invalidf("bp_sys must be positive")
	}
	if r.BPDia != nil && *r.BPDia <= 0 {
		return invalidf("bp_dia must be positive")
	}
	if r.Glucose != nil && *r.Glucose <= 0 {
		return invalidf("glucose must be positive")
	}
	return nil
}

// UserStore persists per-user aggregates.
type UserStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserStore creates a store; timeout bounds every call.
func NewUserStore(db *gorm.DB, timeout time.Duration) *UserStore {
	return &UserStore{db: db, timeout: timeout}
}

// WithTx returns a copy of the store bound to tx.
func (s *UserStore) WithTx(tx *gorm.DB) *UserStore {
	return &UserStore{db: tx, timeout: s.timeout}
}

func (s *UserStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// GetOrCreateByName returns the user with exactly this name, creating it on first login.
// Surrounding whitespace is not part of a name and is trimmed first; case is kept and
// compared exactly. The bool result reports whether a new user was created.
func (s *UserStore) GetOrCreateByName(ctx context.Context, name string) (*models.User, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, invalidf("name required")
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return nil, false, invalidf("name longer than %d characters", maxNameRunes)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	candidate := models.User{Name: name}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate)
	if res.Error != nil {
		return nil, false, storageErr("create user", res.Error)
	}

	var user models.User
	if err := db.Where("name = ?", name).First(&user).Error; err != nil {
		return nil, false, storageErr("load user", err)
	}
	return &user, res.RowsAffected > 0, nil
}

// Get returns a user by id or ErrNotFound.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, storageErr("get user", err)
	}
	return &user, nil
}

// LockByID loads a user and holds a row lock until the surrounding transaction ends.
// Dialects without row locks (SQLite) serialise writers instead.
func (s *UserStore) LockByID(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var user models.User
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
		return nil, storageErr("lock user", err)
	}
	return &user, nil
}

// UpdateGoal replaces the user's free-text goal. Markup is stripped.
func (s *UserStore) UpdateGoal(ctx context.Context, id uint, goal string) error {
	goal = strings.TrimSpace(utils.SanitizeText(goal))
	if utf8.RuneCountInString(goal) > maxGoalRunes {
		return invalidf("goal longer than %d characters", maxGoalRunes)
	}
	var value interface{}
	if goal != "" {
		value = goal
	}

	db, cancel := s.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, id); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Update("goal", value).Error
	})
	return storageErr("update goal", err)
}

// UpdateRealityCheck overwrites every biometric field and stamps the check day.
func (s *UserStore) UpdateRealityCheck(ctx context.Context, id uint, rc RealityCheck, day string) error {
	if err := rc.validate(); err != nil {
		return err
	}
	if _, err := ParseDay(day); err != nil {
		return err
	}

	db, cancel := s.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, id); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"weight":             rc.Weight,
			"waist":              rc.Waist,
			"bp_sys":             rc.BPSys,
			"bp_dia":             rc.BPDia,
			"glucose":            rc.Glucose,
			"last_reality_check": day,
		}).Error
	})
	return storageErr("update reality check", err)
}

// IncrementScoreAndSetStreak adds delta to the lifetime score and records the new streak
// and last active day in one statement. Only the submission engine calls it, inside its transaction.
func (s *UserStore) IncrementScoreAndSetStreak(ctx context.Context, id uint, delta, streak int, day string) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_score":      gorm.Expr("total_score + ?", delta),
		"streak":           streak,
		"last_active_date": day,
	})
	if res.Error != nil {
		return storageErr("update aggregate", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListIDs returns every user id in ascending order.
func (s *UserStore) ListIDs(ctx context.Context) ([]uint, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	ids := []uint{}
	if err := db.Model(&models.User{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, storageErr("list users", err)
	}
	return ids, nil
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, storageErr("count users", err)
	}
	return n, nil
}

func ensureUser(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
