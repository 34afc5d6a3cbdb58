package service

import (
	"errors"
	"fmt"
	"strings"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"

	"gorm.io/gorm"
)

const (
	minHoursPerWeek  = 1
	maxHoursPerWeek  = 80
	maxProfileSkills = 50
)

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo}
}

type ProfileRequest struct {
	Skills       []string `json:"skills"`
	Goals        string   `json:"goals" binding:"max=2000"`
	CareerStage  string   `json:"careerStage" binding:"max=100"`
	HoursPerWeek int      `json:"hoursPerWeek" binding:"required,min=1,max=80"`
}

func (s *ProfileService) GetProfile(userID uint) (*model.LearningProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpsertProfile(userID uint, req ProfileRequest) (*model.LearningProfile, error) {
	if req.HoursPerWeek < minHoursPerWeek || req.HoursPerWeek > maxHoursPerWeek {
		return nil, fmt.Errorf("%w: hoursPerWeek must be between %d and %d", util.ErrInvalidProfile, minHoursPerWeek, maxHoursPerWeek)
	}

	skills := cleanSkills(req.Skills)
	if len(skills) > maxProfileSkills {
		return nil, fmt.Errorf("%w: at most %d skills", util.ErrInvalidProfile, maxProfileSkills)
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &model.LearningProfile{UserID: userID}
	}

	profile.Skills = skills
	profile.Goals = strings.TrimSpace(req.Goals)
	profile.CareerStage = strings.TrimSpace(req.CareerStage)
	profile.HoursPerWeek = req.HoursPerWeek

	if err := s.ProfileRepo.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// cleanSkills 去空白、去重（不区分大小写），保持原顺序
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
