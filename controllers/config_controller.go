package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// ConfigController serves static catalog and environment-driven client configuration.
type ConfigController struct {
	days *services.DayResolver
}

// NewConfigController creates a ConfigController that reports today's date in the days zone.
func NewConfigController(days *services.DayResolver) *ConfigController {
	return &ConfigController{days: days}
}

// GetHabits returns the ten commandments.
func (c *ConfigController) GetHabits(ctx *gin.Context) {
	utils.Success(ctx, models.Habits())
}

// GetConfig returns the values the client needs to render progress.
func (c *ConfigController) GetConfig(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"water_goal_ml":     cfg.WaterGoalML,
		"leaderboard_limit": cfg.LeaderboardLimit,
		"points_per_habit":  models.PointsPerHabit,
		"habit_count":       len(models.Habits()),
		"today":             c.days.Today(),
	})
}
