package models

import (
	"time"

	"gorm.io/datatypes"
)

// DailyLog stores one user's facts for one calendar day. Score and CompletedIDs are set
// once by a scored submission; WaterIntake accumulates independently.
type DailyLog struct {
	ID           uint                     `gorm:"primaryKey" json:"id"`
	UserID       uint                     `gorm:"not null;uniqueIndex:idx_logs_user_day,priority:1" json:"user_id"`
	Day          string                   `gorm:"column:day;size:10;not null;uniqueIndex:idx_logs_user_day,priority:2" json:"date"`
	Score        int                      `gorm:"not null;default:0" json:"score"`
	WaterIntake  int                      `gorm:"not null;default:0" json:"water_intake"`
	CompletedIDs datatypes.JSONSlice[int] `json:"completed_ids"`
	// ScoredAt orders scored submissions for streak replay.
	ScoredAt  *time.Time `gorm:"index" json:"scored_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Scored reports whether the day's one scored submission already happened.
func (l *DailyLog) Scored() bool {
	return l.Score > 0
}
