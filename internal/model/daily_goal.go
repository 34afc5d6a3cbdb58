package model

import "time"

type GoalKind string

const (
	GoalWatch   GoalKind = "watch"
	GoalProject GoalKind = "project"
	GoalReview  GoalKind = "review"
)

// DailyGoal 由当前学习周派生的每日目标，Day 格式为 2006-01-02
type DailyGoal struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_goal_user_day;not null" json:"userId"`
	Day         string     `gorm:"index:idx_goal_user_day;size:10;not null" json:"day"`
	PathID      string     `gorm:"size:36;index" json:"pathId"`
	WeekNumber  int        `json:"weekNumber"`
	Kind        GoalKind   `gorm:"size:20;not null" json:"kind"`
	Skill       string     `gorm:"size:150" json:"skill"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	VideoID     string     `gorm:"size:100" json:"videoId,omitempty"`
	XPReward    int        `gorm:"default:0" json:"xpReward"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (DailyGoal) TableName() string {
	return "daily_goals"
}
