package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) Exists(userID uint, name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Achievement{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

// CreateWithXP 同一事务内写入徽章并累加用户经验
func (r *AchievementRepository) CreateWithXP(achievement *model.Achievement) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(achievement).Error; err != nil {
			return err
		}
		if achievement.EarnedXP == 0 {
			return nil
		}
		return tx.Model(&model.User{}).
			Where("id = ?", achievement.UserID).
			Update("xp", gorm.Expr("xp + ?", achievement.EarnedXP)).
			Error
	})
}
