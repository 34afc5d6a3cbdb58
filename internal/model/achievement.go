package model

// Achievement 徽章，同一用户同名徽章只发放一次
type Achievement struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex:idx_user_badge;not null" json:"userId"`
	Name     string `gorm:"uniqueIndex:idx_user_badge;size:100;not null" json:"name"`
	Icon     string `gorm:"size:255" json:"icon"`
	EarnedXP int    `gorm:"default:0" json:"earnedXp"`
}

func (Achievement) TableName() string {
	return "achievements"
}
