package controller

import (
	"errors"

	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningProfileController struct {
	ProfileService *service.ProfileService
}

func NewLearningProfileController(profileService *service.ProfileService) *LearningProfileController {
	return &LearningProfileController{ProfileService: profileService}
}

// GetLearningProfile godoc
// @Summary 获取学习档案
// @Tags 学习档案
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningProfile}
// @Failure 404 {object} util.Response "尚未填写学习档案"
// @Router /learning-profile [get]
func (c *LearningProfileController) GetLearningProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProfileService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.NotFoundMessage(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// UpsertLearningProfile godoc
// @Summary 创建或更新学习档案
// @Description 技能、目标、职业阶段与每周学习时长（1-80小时）
// @Tags 学习档案
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileRequest true "学习档案"
// @Success 200 {object} util.Response{data=model.LearningProfile}
// @Failure 400 {object} util.Response
// @Router /learning-profile [put]
func (c *LearningProfileController) UpsertLearningProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpsertProfile(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidProfile) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}
