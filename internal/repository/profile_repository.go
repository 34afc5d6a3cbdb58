package repository

import (
	"skillpath_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUserID(userID uint) (*model.LearningProfile, error) {
	var profile model.LearningProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Save(profile *model.LearningProfile) error {
	return r.DB.Save(profile).Error
}
