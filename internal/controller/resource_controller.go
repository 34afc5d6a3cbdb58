package controller

import (
	"context"

	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheClearer 由 resource.Resolver 实现
type CacheClearer interface {
	Clear(ctx context.Context) error
}

type ResourceController struct {
	Cache CacheClearer
}

func NewResourceController(cache CacheClearer) *ResourceController {
	return &ResourceController{Cache: cache}
}

// ClearCache godoc
// @Summary 清空视频资源缓存
// @Description 之后的规划会重新检索视频，包括此前退化为占位资源的技能
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /admin/resources/cache/clear [post]
func (c *ResourceController) ClearCache(ctx *gin.Context) {
	if err := c.Cache.Clear(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims != nil {
		logger.Log.Info("Resource cache cleared", zap.Uint("user_id", claims.UserID))
	}
	util.Success(ctx, gin.H{"cleared": true})
}
