package controller

import (
	"context"
	"net/http"
	"time"

	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
	KB    *planner.KnowledgeBase
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, kb *planner.KnowledgeBase) *HealthController {
	return &HealthController{DB: db, Redis: rdb, KB: kb}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up"}

	if c.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	resp := gin.H{
		"status":     "ok",
		"components": components,
	}
	if c.KB != nil {
		resp["knowledgeBaseVersion"] = c.KB.Version()
	}
	util.Success(ctx, resp)
}
