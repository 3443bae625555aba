package services

import (
	"context"
	"errors"

	"github.com/drpal/commandments/models"
)

// Badge is an achievement derived from a user's current state.
type Badge struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Desc string `json:"desc"`
}

const (
	kitchenCloserStreak = 7
	metabolicBeastScore = 1000
)

// BadgesFor derives the user's badges. todayWater is the hydration logged today.
func BadgesFor(user *models.User, todayWater, waterGoal int) []Badge {
	badges := []Badge{}
	if user.Streak >= kitchenCloserStreak {
		badges = append(badges, Badge{Name: "Kitchen Closer", Icon: "🚪", Desc: "7 Day Streak"})
	}
	if waterGoal > 0 && todayWater >= waterGoal {
		badges = append(badges, Badge{Name: "Houseplant", Icon: "🪴", Desc: "Hydrated Today"})
	}
	if user.TotalScore >= metabolicBeastScore {
		badges = append(badges, Badge{Name: "Metabolic Beast", Icon: "🦁", Desc: "1000+ XP"})
	}
	if user.HasRealityCheck() {
		badges = append(badges, Badge{Name: "Truth Seeker", Icon: "🔍", Desc: "Reality Checked"})
	}
	return badges
}

// Summary is the user profile as the client's dashboard shows it.
type Summary struct {
	User      *models.User     `json:"user"`
	Today     string           `json:"today"`
	TodayLog  *models.DailyLog `json:"today_log"`
	Submitted bool             `json:"submitted_today"`
	WaterGoal int              `json:"water_goal"`
	Badges    []Badge          `json:"badges"`
}

// Summarize loads the user and today's log and derives badges.
func Summarize(ctx context.Context, users *UserStore, logs *DailyLogStore, userID uint, today string, waterGoal int) (*Summary, error) {
	user, err := users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	log, err := logs.Get(ctx, userID, today)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	water := 0
	submitted := false
	if log != nil {
		water = log.WaterIntake
		submitted = log.Scored()
	}
	return &Summary{
		User:      user,
		Today:     today,
		TodayLog:  log,
		Submitted: submitted,
		WaterGoal: waterGoal,
		Badges:    BadgesFor(user, water, waterGoal),
	}, nil
}
