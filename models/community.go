package models

import "time"

// Nudge is a poke from one user to another, shown until the recipient reads it.
type Nudge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"index;not null" json:"from_user_id"`
	ToUserID   uint      `gorm:"index:idx_nudges_to_read,priority:1;not null" json:"to_user_id"`
	Read       bool      `gorm:"column:is_read;index:idx_nudges_to_read,priority:2;not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"timestamp"`
}

// CommunityFail is a public confession on the fails feed. UserName is a snapshot taken at post time.
type CommunityFail struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	UserName  string    `gorm:"size:64;not null" json:"user_name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

// All returns every model the service migrates.
func All() []interface{} {
	return []interface{}{&User{}, &DailyLog{}, &Nudge{}, &CommunityFail{}}
}
