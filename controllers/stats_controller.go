package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// StatsController provides community statistics such as user counts and today's activity.
type StatsController struct {
	db   *gorm.DB
	days *services.DayResolver
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB, days *services.DayResolver) *StatsController {
	return &StatsController{db: db, days: days}
}

// GetStats returns aggregate statistics.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var submittedToday int64
	var waterToday int64

	db := s.db.WithContext(ctx.Request.Context())
	today := s.days.Today()

	// Each figure falls back to 0 instead of failing the whole endpoint
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
		logStatsError("user_count", err)
	}

	if err := db.Model(&models.DailyLog{}).
		Where("day = ? AND score > 0", today).
		Count(&submittedToday).Error; err != nil {
		submittedToday = 0
		logStatsError("submitted_today", err)
	}

	if err := db.Model(&models.DailyLog{}).
		Where("day = ?", today).
		Select("COALESCE(SUM(water_intake),0)").
		Scan(&waterToday).Error; err != nil {
		waterToday = 0
		logStatsError("water_today_ml", err)
	}

	utils.Success(ctx, gin.H{
		"date":            today,
		"user_count":      userCount,
		"submitted_today": submittedToday,
		"water_today_ml":  waterToday,
	})
}

func logStatsError(stat string, err error) {
	utils.Logger.Warn("stats query failed", zap.String("stat", stat), zap.Error(err))
}
