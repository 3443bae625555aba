package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// UserController handles identity, profile and history endpoints.
type UserController struct {
	users       *services.UserStore
	logs        *services.DailyLogStore
	leaderboard *services.Leaderboard
	days        *services.DayResolver
	waterGoal   int
}

// NewUserController creates a new UserController instance.
func NewUserController(users *services.UserStore, logs *services.DailyLogStore, leaderboard *services.Leaderboard, days *services.DayResolver, waterGoal int) *UserController {
	return &UserController{users: users, logs: logs, leaderboard: leaderboard, days: days, waterGoal: waterGoal}
}

type loginRequest struct {
	Name string `json:"name" binding:"required"`
}

// Login returns the user with the given name, creating it on first use.
func (u *UserController) Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, created, err := u.users.GetOrCreateByName(ctx.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if created {
		utils.Logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("name", user.Name))
		u.leaderboard.Invalidate(ctx.Request.Context())
	}
	utils.Success(ctx, user)
}

type goalRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Goal   string `json:"goal"`
}

// SetGoal replaces the user's free-text goal. An empty goal clears it.
func (u *UserController) SetGoal(ctx *gin.Context) {
	var req goalRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := u.users.UpdateGoal(ctx.Request.Context(), req.UserID, req.Goal); err != nil {
		respondServiceError(ctx, err)
		return
	}
	user, err := u.users.Get(ctx.Request.Context(), req.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, user)
}

type realityCheckRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Date   string `json:"date"`
	services.RealityCheck
}

// RealityCheck records the user's latest biometrics.
func (u *UserController) RealityCheck(ctx *gin.Context) {
	var req realityCheckRequest
	if !bindJSON(ctx, &req) {
		return
	}
	day, err := u.days.Resolve(req.Date)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if err := u.users.UpdateRealityCheck(ctx.Request.Context(), req.UserID, req.RealityCheck, day); err != nil {
		respondServiceError(ctx, err)
		return
	}
	user, err := u.users.Get(ctx.Request.Context(), req.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, user)
}

// History lists the user's daily logs, most recent first.
func (u *UserController) History(ctx *gin.Context) {
	userID, ok := paramID(ctx, "userId")
	if !ok {
		return
	}
	if _, err := u.users.Get(ctx.Request.Context(), userID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	logs, err := u.logs.ListByUser(ctx.Request.Context(), userID, true)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, logs)
}

// Summary returns the user's profile with today's log and badges.
func (u *UserController) Summary(ctx *gin.Context) {
	userID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	summary, err := services.Summarize(ctx.Request.Context(), u.users, u.logs, userID, u.days.Today(), u.waterGoal)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, summary)
}
