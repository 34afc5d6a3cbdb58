package controller

import (
	"context"
	"errors"

	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	PathService *service.LearningPathService
}

func NewLearningPathController(pathService *service.LearningPathService) *LearningPathController {
	return &LearningPathController{PathService: pathService}
}

// GenerateLearningPath godoc
// @Summary 生成学习路径
// @Description 根据学习档案匹配职业路径、分析技能缺口并生成按周课程，新路径成为激活路径
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "尚未填写学习档案"
// @Failure 504 {object} util.Response "规划超时"
// @Router /learning-paths [post]
func (c *LearningPathController) GenerateLearningPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.PathService.Generate(ctx.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrProfileNotFound):
			util.NotFoundMessage(ctx, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			util.Error(ctx, 504, "learning path generation timed out")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, path)
}

// ListLearningPaths godoc
// @Summary 历史学习路径
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /learning-paths [get]
func (c *LearningPathController) ListLearningPaths(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.Pagination(ctx)
	paths, total, err := c.PathService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  paths,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetActiveLearningPath godoc
// @Summary 当前激活的学习路径
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response
// @Router /learning-paths/active [get]
func (c *LearningPathController) GetActiveLearningPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.PathService.GetActive(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActivePath) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, path)
}

// GetCurrentWeek godoc
// @Summary 当前学习周
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.CurrentWeekResponse}
// @Failure 404 {object} util.Response
// @Router /learning-paths/active/current-week [get]
func (c *LearningPathController) GetCurrentWeek(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resp, err := c.PathService.GetCurrentWeek(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActivePath) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// ExportLearningPath godoc
// @Summary 导出学习路径
// @Description 将路径渲染为 Markdown 并上传到配置的存储
// @Tags 学习路径
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /learning-paths/{id}/export [post]
func (c *LearningPathController) ExportLearningPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.PathService.Export(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
