package controller

import (
	"errors"
	"strconv"

	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxLeaderboardSize = 100

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 获取用户成就
// @Description 获取用户的经验、等级、连续打卡天数和徽章
// @Tags 成就系统
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserAchievements}
// @Router /achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, achievements)
}

// @Summary 获取排行榜
// @Description 获取用户经验排行榜
// @Tags 成就系统
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	leaderboard, err := c.AchievementService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}
