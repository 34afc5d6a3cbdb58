package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// CreateActive 停用用户的旧路径并写入新路径
func (r *LearningPathRepository) CreateActive(path *model.LearningPath) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LearningPath{}).
			Where("user_id = ? AND active = ?", path.UserID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		path.Active = true
		return tx.Create(path).Error
	})
}

func (r *LearningPathRepository) FindActiveByUserID(userID uint) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at desc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *LearningPathRepository) FindByIDAndUserID(id string, userID uint) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUserID 列表不加载周计划与正文
func (r *LearningPathRepository) ListByUserID(userID uint, page, limit int) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64
	query := r.DB.Model(&model.LearningPath{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Omit("weekly_plans", "content").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&paths).Error
	return paths, total, err
}

// ActiveUserIDs 拥有激活路径的用户
func (r *LearningPathRepository) ActiveUserIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.LearningPath{}).
		Where("active = ?", true).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *LearningPathRepository) UpdateExportURL(id, url string) error {
	return r.DB.Model(&model.LearningPath{}).Where("id = ?", id).Update("export_url", url).Error
}
