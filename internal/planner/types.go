package planner

import (
	"context"

	"skillpath_backend/internal/resource"
)

// Profile 规划输入：用户技能、目标描述、职业阶段与每周可投入时长
type Profile struct {
	Skills       []string
	Goals        string
	CareerStage  string
	HoursPerWeek int
}

// SkillGap 用户尚未掌握的必需技能
type SkillGap struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Difficulty  int     `json:"difficulty"`
	Importance  float64 `json:"importance"`
}

type ProjectIdea struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
}

// WeekPlan 一周的学习安排
type WeekPlan struct {
	WeekNumber     int                      `json:"weekNumber"`
	Skill          string                   `json:"skill"`
	Description    string                   `json:"description"`
	HoursAllocated int                      `json:"hoursAllocated"`
	Resources      []resource.VideoResource `json:"resources"`
	Projects       []ProjectIdea            `json:"projects"`
	IsReviewWeek   bool                     `json:"isReviewWeek"`
	ReviewSkills   []string                 `json:"reviewSkills,omitempty"`
	IsCapstone     bool                     `json:"isCapstone"`
	SpanWeeks      int                      `json:"spanWeeks"`
}

// LearningPathData 一次规划的完整输出
type LearningPathData struct {
	TotalHours  int        `json:"totalHours"`
	TotalWeeks  int        `json:"totalWeeks"`
	WeeklyPlans []WeekPlan `json:"weeklyPlans"`
}

// GapAllocation 技能缺口及其分配到的周数
type GapAllocation struct {
	Gap   SkillGap
	Weeks int
}

// ResourceResolver 为某个技能在指定阶段提供学习视频
type ResourceResolver interface {
	Resolve(ctx context.Context, skill, searchContext string, n int) []resource.VideoResource
}
