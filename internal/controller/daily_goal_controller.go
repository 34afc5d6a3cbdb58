package controller

import (
	"errors"
	"time"

	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DailyGoalController struct {
	GoalService *service.DailyGoalService
}

func NewDailyGoalController(goalService *service.DailyGoalService) *DailyGoalController {
	return &DailyGoalController{GoalService: goalService}
}

// dayParam 读取 ?date=2006-01-02，缺省为今天
func dayParam(ctx *gin.Context) (time.Time, bool) {
	raw := ctx.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation(util.DateFormat, raw, time.Local)
	if err != nil {
		util.BadRequest(ctx, "date must be formatted as "+util.DateFormat)
		return time.Time{}, false
	}
	return day, true
}

// GenerateRecommended godoc
// @Summary 生成今日推荐目标
// @Description 根据当前学习周生成观看、项目与复习目标，同一天重复调用返回相同目标
// @Tags 每日目标
// @Produce json
// @Security ApiKeyAuth
// @Param date query string false "日期 (2006-01-02)"
// @Success 200 {object} util.Response{data=[]model.DailyGoal}
// @Failure 404 {object} util.Response "没有激活的学习路径"
// @Router /daily-goals/recommended [post]
func (c *DailyGoalController) GenerateRecommended(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	day, ok := dayParam(ctx)
	if !ok {
		return
	}

	goals, err := c.GoalService.GenerateRecommended(ctx.Request.Context(), claims.UserID, day)
	if err != nil {
		if errors.Is(err, util.ErrNoActivePath) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goals)
}

// ListDailyGoals godoc
// @Summary 每日目标列表
// @Tags 每日目标
// @Produce json
// @Security ApiKeyAuth
// @Param date query string false "日期 (2006-01-02)"
// @Success 200 {object} util.Response{data=[]model.DailyGoal}
// @Router /daily-goals [get]
func (c *DailyGoalController) ListDailyGoals(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	day, ok := dayParam(ctx)
	if !ok {
		return
	}

	goals, err := c.GoalService.List(claims.UserID, day)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, goals)
}

// CompleteDailyGoal godoc
// @Summary 完成每日目标
// @Tags 每日目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 200 {object} util.Response{data=model.DailyGoal}
// @Failure 404 {object} util.Response
// @Router /daily-goals/{id}/complete [patch]
func (c *DailyGoalController) CompleteDailyGoal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goalID := util.MustParseUint(ctx.Param("id"))
	if goalID == 0 {
		util.BadRequest(ctx, "invalid goal id")
		return
	}

	goal, err := c.GoalService.Complete(claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}
