package controller

import (
	"strings"

	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	KB *planner.KnowledgeBase
}

func NewKnowledgeController(kb *planner.KnowledgeBase) *KnowledgeController {
	return &KnowledgeController{KB: kb}
}

// ListSkills godoc
// @Summary 技能目录
// @Tags 知识库
// @Produce json
// @Param tag query string false "按标签过滤"
// @Success 200 {object} util.Response{data=object}
// @Router /knowledge/skills [get]
func (c *KnowledgeController) ListSkills(ctx *gin.Context) {
	tag := strings.TrimSpace(ctx.Query("tag"))

	skills := c.KB.Skills()
	if tag != "" {
		filtered := make([]planner.Skill, 0, len(skills))
		for _, s := range skills {
			for _, t := range s.Tags {
				if strings.EqualFold(t, tag) {
					filtered = append(filtered, s)
					break
				}
			}
		}
		skills = filtered
	}

	util.Success(ctx, gin.H{
		"version": c.KB.Version(),
		"skills":  skills,
	})
}

// ListCareerPaths godoc
// @Summary 职业路径目录
// @Tags 知识库
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /knowledge/career-paths [get]
func (c *KnowledgeController) ListCareerPaths(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"version":     c.KB.Version(),
		"careerPaths": c.KB.CareerPaths(),
	})
}
