package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// LogController handles the daily scoring and hydration writes.
type LogController struct {
	engine *services.Engine
	days   *services.DayResolver
}

// NewLogController creates a new LogController instance.
func NewLogController(engine *services.Engine, days *services.DayResolver) *LogController {
	return &LogController{engine: engine, days: days}
}

type submitRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	Date         string `json:"date"`
	CompletedIDs []int  `json:"completedIds"`
}

// Submit scores the day. A day can be scored only once.
func (l *LogController) Submit(ctx *gin.Context) {
	var req submitRequest
	if !bindJSON(ctx, &req) {
		return
	}
	day, err := l.days.Resolve(req.Date)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	result, err := l.engine.SubmitDay(ctx.Request.Context(), req.UserID, day, req.CompletedIDs)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, result)
}

type waterRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Date   string `json:"date"`
	Amount int    `json:"amount"`
}

// AddWater adds millilitres to the day's hydration. Allowed before and after scoring.
func (l *LogController) AddWater(ctx *gin.Context) {
	var req waterRequest
	if !bindJSON(ctx, &req) {
		return
	}
	day, err := l.days.Resolve(req.Date)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	total, err := l.engine.AddWater(ctx.Request.Context(), req.UserID, day, req.Amount)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"date":         day,
		"water_intake": total,
	})
}
