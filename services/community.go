package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/utils"
)

const maxFailRunes = 500

// NudgeView is an unread nudge with the sender's name.
type NudgeView struct {
	ID           uint      `json:"id"`
	FromUserID   uint      `json:"from_user_id"`
	FromUserName string    `json:"from_user_name"`
	ToUserID     uint      `json:"to_user_id"`
	CreatedAt    time.Time `json:"timestamp"`
}

// Community serves nudges and the public fails feed.
type Community struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewCommunity creates the community service.
func NewCommunity(db *gorm.DB, timeout time.Duration) *Community {
	return &Community{db: db, timeout: timeout}
}

func (c *Community) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	return c.db.WithContext(ctx), cancel
}

// SendNudge records a nudge from one user to another.
func (c *Community) SendNudge(ctx context.Context, fromID, toID uint) error {
	if fromID == toID {
		return invalidf("cannot nudge yourself")
	}

	db, cancel := c.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, fromID); err != nil {
			return err
		}
		if err := ensureUser(tx, toID); err != nil {
			return err
		}
		return tx.Create(&models.Nudge{FromUserID: fromID, ToUserID: toID}).Error
	})
	return storageErr("send nudge", err)
}

// UnreadNudges returns the user's unread nudges, newest first.
func (c *Community) UnreadNudges(ctx context.Context, userID uint) ([]NudgeView, error) {
	db, cancel := c.session(ctx)
	defer cancel()

	out := []NudgeView{}
	err := db.Table("nudges AS n").
		Select("n.id, n.from_user_id, u.name AS from_user_name, n.to_user_id, n.created_at").
		Joins("JOIN users u ON n.from_user_id = u.id").
		Where("n.to_user_id = ? AND n.is_read = ?", userID, false).
		Order("n.created_at DESC").
		Order("n.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, storageErr("list nudges", err)
	}
	return out, nil
}

// MarkNudgesRead marks every nudge addressed to the user as read and returns how many changed.
func (c *Community) MarkNudgesRead(ctx context.Context, userID uint) (int64, error) {
	db, cancel := c.session(ctx)
	defer cancel()

	res := db.Model(&models.Nudge{}).
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, storageErr("mark nudges read", res.Error)
	}
	return res.RowsAffected, nil
}

// PostFail publishes a confession under the author's current name.
func (c *Community) PostFail(ctx context.Context, userID uint, content string) (*models.CommunityFail, error) {
	content = strings.TrimSpace(utils.SanitizeText(content))
	if content == "" {
		return nil, invalidf("content required")
	}
	if utf8.RuneCountInString(content) > maxFailRunes {
		return nil, invalidf("content longer than %d characters", maxFailRunes)
	}

	db, cancel := c.session(ctx)
	defer cancel()

	var fail models.CommunityFail
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "name").First(&user, userID).Error; err != nil {
			return err
		}
		fail = models.CommunityFail{UserID: user.ID, UserName: user.Name, Content: content}
		return tx.Create(&fail).Error
	})
	if err != nil {
		return nil, storageErr("post fail", err)
	}
	return &fail, nil
}

// ListFails returns the newest fails, at most limit (default 50).
func (c *Community) ListFails(ctx context.Context, limit int) ([]models.CommunityFail, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db, cancel := c.session(ctx)
	defer cancel()

	fails := []models.CommunityFail{}
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&fails).Error; err != nil {
		return nil, storageErr("list fails", err)
	}
	return fails, nil
}
