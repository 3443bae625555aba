package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/drpal/commandments/metrics"
	"github.com/drpal/commandments/models"
)

const (
	// LeaderboardCachePrefix namespaces cached leaderboard pages.
	LeaderboardCachePrefix = "cache:leaderboard:"
	// LeaderboardGenerationKey counts invalidations; pages are keyed by generation so a
	// fill computed before an invalidation is never served after it.
	LeaderboardGenerationKey = "cache:leaderboard-gen"
	// MaxLeaderboardLimit caps how many users one request may rank.
	MaxLeaderboardLimit = 200
)

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	TotalScore     int     `json:"total_score"`
	Streak         int     `json:"streak"`
	LastActiveDate *string `json:"last_active_date"`
}

// Leaderboard ranks users by lifetime score. Ties go to the earlier registered user.
type Leaderboard struct {
	db           *gorm.DB
	cache        Cache
	ttl          time.Duration
	defaultLimit int
	timeout      time.Duration
}

// NewLeaderboard creates a projector. cache may be nil; ttl <= 0 disables caching.
func NewLeaderboard(db *gorm.DB, cache Cache, ttl time.Duration, defaultLimit int, timeout time.Duration) *Leaderboard {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &Leaderboard{db: db, cache: cache, ttl: ttl, defaultLimit: defaultLimit, timeout: timeout}
}

// TopUsers returns up to limit users ordered by total score descending, then id ascending.
func (l *Leaderboard) TopUsers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = l.defaultLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	var key string
	useCache := l.cacheEnabled()
	if useCache {
		gen, ok := l.cache.Generation(ctx, LeaderboardGenerationKey)
		useCache = ok
		key = leaderboardPageKey(gen, limit)
	}
	if useCache {
		if b, ok := l.cache.GetBytes(ctx, key); ok {
			var cached []LeaderboardEntry
			if err := json.Unmarshal(b, &cached); err == nil {
				metrics.RecordLeaderboardCache(true)
				return cached, nil
			}
		}
		metrics.RecordLeaderboardCache(false)
	}

	qctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	var users []models.User
	if err := l.db.WithContext(qctx).
		Order("total_score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, storageErr("leaderboard", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			ID:             u.ID,
			Name:           u.Name,
			TotalScore:     u.TotalScore,
			Streak:         u.Streak,
			LastActiveDate: u.LastActiveDate,
		})
	}

	if useCache {
		l.cache.SetJSON(ctx, key, entries, l.ttl)
	}
	return entries, nil
}

// Invalidate drops every cached leaderboard page.
func (l *Leaderboard) Invalidate(ctx context.Context) {
	if l.cacheEnabled() {
		invalidateLeaderboardCache(ctx, l.cache)
	}
}

func leaderboardPageKey(gen int64, limit int) string {
	return LeaderboardCachePrefix + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(limit)
}

// invalidateLeaderboardCache moves readers to a new generation, then deletes the old pages.
func invalidateLeaderboardCache(ctx context.Context, cache Cache) {
	ctx = context.WithoutCancel(ctx)
	cache.Bump(ctx, LeaderboardGenerationKey)
	cache.InvalidateByPrefix(ctx, LeaderboardCachePrefix)
}

func (l *Leaderboard) cacheEnabled() bool {
	return l.cache != nil && l.ttl > 0
}
