package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// LeaderboardController serves the ranking.
type LeaderboardController struct {
	leaderboard *services.Leaderboard
}

// NewLeaderboardController creates a new LeaderboardController instance.
func NewLeaderboardController(leaderboard *services.Leaderboard) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard}
}

// Top returns the highest scoring users.
func (l *LeaderboardController) Top(ctx *gin.Context) {
	limit, ok := queryLimit(ctx)
	if !ok {
		return
	}
	entries, err := l.leaderboard.TopUsers(ctx.Request.Context(), limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, entries)
}
