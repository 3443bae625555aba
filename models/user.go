package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a participant identified only by name. Score, streak and last active day are
// a denormalised view over DailyLog and are written by the submission path only.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:64;not null;uniqueIndex:idx_users_name" json:"name"`
	TotalScore     int     `gorm:"not null;default:0;index:idx_users_score" json:"total_score"`
	Streak         int     `gorm:"not null;default:0" json:"streak"`
	LastActiveDate *string `gorm:"size:10" json:"last_active_date"`
	Goal           *string `gorm:"size:2048" json:"goal"`
	// Latest reality check biometrics
	Weight           *float64  `json:"weight"`
	Waist            *float64  `json:"waist"`
	BPSys            *int      `gorm:"column:bp_sys" json:"bp_sys"`
	BPDia            *int      `gorm:"column:bp_dia" json:"bp_dia"`
	Glucose          *int      `json:"glucose"`
	LastRealityCheck *string   `gorm:"size:10" json:"last_reality_check"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BinaryCollatedColumns lists columns that must compare byte for byte so names stay
// case sensitive on every database.
func (User) BinaryCollatedColumns() map[string]string {
	return map[string]string{"name": "VARCHAR(64)"}
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// HasRealityCheck reports whether biometrics were ever recorded.
func (u *User) HasRealityCheck() bool {
	return u.LastRealityCheck != nil && *u.LastRealityCheck != ""
}
