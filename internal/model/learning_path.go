package model

import (
	"time"

	"skillpath_backend/internal/planner"
)

// swagger:model LearningPath
type LearningPath struct {
	UUIDBase
	UserID      uint               `gorm:"index;not null" json:"userId"`
	CareerPath  string             `gorm:"size:150;not null" json:"careerPath"`
	Category    string             `gorm:"size:100" json:"category"`
	Synthetic   bool               `gorm:"default:false" json:"synthetic"`
	MatchScore  float64            `gorm:"default:0" json:"matchScore"`
	TotalWeeks  int                `gorm:"not null" json:"totalWeeks"`
	TotalHours  int                `gorm:"not null" json:"totalHours"`
	Gaps        []planner.SkillGap `gorm:"serializer:json;type:text" json:"gaps"`
	WeeklyPlans []planner.WeekPlan `gorm:"serializer:json;type:longtext" json:"weeklyPlans"`
	Content     string             `gorm:"type:longtext" json:"-"`
	Active      bool               `gorm:"index;default:true" json:"active"`
	StartedAt   time.Time          `json:"startedAt"`
	ExportURL   string             `gorm:"size:500" json:"exportUrl,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}
