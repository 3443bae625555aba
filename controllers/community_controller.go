package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// CommunityController handles nudges and the fails feed.
type CommunityController struct {
	community *services.Community
}

// NewCommunityController creates a new CommunityController instance.
func NewCommunityController(community *services.Community) *CommunityController {
	return &CommunityController{community: community}
}

type nudgeRequest struct {
	FromUserID uint `json:"fromUserId" binding:"required"`
	ToUserID   uint `json:"toUserId" binding:"required"`
}

// SendNudge pokes another user.
func (c *CommunityController) SendNudge(ctx *gin.Context) {
	var req nudgeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := c.community.SendNudge(ctx.Request.Context(), req.FromUserID, req.ToUserID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, nil)
}

// Nudges lists the user's unread nudges.
func (c *CommunityController) Nudges(ctx *gin.Context) {
	userID, ok := paramID(ctx, "userId")
	if !ok {
		return
	}
	nudges, err := c.community.UnreadNudges(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, nudges)
}

type markReadRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// MarkRead clears the user's unread nudges.
func (c *CommunityController) MarkRead(ctx *gin.Context) {
	var req markReadRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.community.MarkNudgesRead(ctx.Request.Context(), req.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"marked": n})
}

type failRequest struct {
	UserID  uint   `json:"userId" binding:"required"`
	Content string `json:"content"`
}

// PostFail publishes a confession to the feed.
func (c *CommunityController) PostFail(ctx *gin.Context) {
	var req failRequest
	if !bindJSON(ctx, &req) {
		return
	}
	fail, err := c.community.PostFail(ctx.Request.Context(), req.UserID, req.Content)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Created(ctx, fail)
}

// ListFails returns the newest confessions.
func (c *CommunityController) ListFails(ctx *gin.Context) {
	limit, ok := queryLimit(ctx)
	if !ok {
		return
	}
	fails, err := c.community.ListFails(ctx.Request.Context(), limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, fails)
}
