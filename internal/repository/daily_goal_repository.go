package repository

import (
	"time"

	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type DailyGoalRepository struct {
	DB *gorm.DB
}

func NewDailyGoalRepository(db *gorm.DB) *DailyGoalRepository {
	return &DailyGoalRepository{DB: db}
}

func (r *DailyGoalRepository) FindByUserAndDay(userID uint, day string) ([]model.DailyGoal, error) {
	var goals []model.DailyGoal
	err := r.DB.Where("user_id = ? AND day = ?", userID, day).Order("id asc").Find(&goals).Error
	return goals, err
}

func (r *DailyGoalRepository) CreateBatch(goals []model.DailyGoal) error {
	if len(goals) == 0 {
		return nil
	}
	return r.DB.Create(&goals).Error
}

func (r *DailyGoalRepository) FindByIDAndUserID(goalID, userID uint) (*model.DailyGoal, error) {
	var goal model.DailyGoal
	err := r.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// MarkCompleted 仅当目标未完成时更新，返回是否发生了状态变化
func (r *DailyGoalRepository) MarkCompleted(goalID uint, at time.Time) (bool, error) {
	res := r.DB.Model(&model.DailyGoal{}).
		Where("id = ? AND completed = ?", goalID, false).
		Updates(map[string]interface{}{"completed": true, "completed_at": at})
	return res.RowsAffected > 0, res.Error
}

// CompletedDays 用户有完成记录的日期，按时间倒序
func (r *DailyGoalRepository) CompletedDays(userID uint, limit int) ([]string, error) {
	var days []string
	err := r.DB.Model(&model.DailyGoal{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct().
		Order("day desc").
		Limit(limit).
		Pluck("day", &days).Error
	return days, err
}
