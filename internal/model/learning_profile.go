package model

// swagger:model LearningProfile
type LearningProfile struct {
	BaseModel
	UserID       uint     `gorm:"uniqueIndex;not null" json:"userId"`
	Skills       []string `gorm:"serializer:json;type:text" json:"skills"`
	Goals        string   `gorm:"type:text" json:"goals"`
	CareerStage  string   `gorm:"size:100" json:"careerStage"`
	HoursPerWeek int      `gorm:"default:10" json:"hoursPerWeek"`
}

func (LearningProfile) TableName() string {
	return "learning_profiles"
}
