package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pathPlannerBadgeIcon = "map"
	pathPlannerBadgeXP   = 50
	week                 = 7 * 24 * time.Hour
)

// BadgeAwarder 由成就服务实现
type BadgeAwarder interface {
	AwardBadge(userID uint, name, icon string, xp int) (bool, error)
}

type LearningPathService struct {
	PathRepo    *repository.LearningPathRepository
	ProfileRepo *repository.ProfileRepository
	Planner     *planner.Planner
	Storage     *StorageService
	Badges      BadgeAwarder
	// 单次规划的超时时间，0 表示不限制
	Timeout time.Duration
	Now     func() time.Time
}

func NewLearningPathService(
	pathRepo *repository.LearningPathRepository,
	profileRepo *repository.ProfileRepository,
	p *planner.Planner,
	storage *StorageService,
	badges BadgeAwarder,
) *LearningPathService {
	return &LearningPathService{
		PathRepo:    pathRepo,
		ProfileRepo: profileRepo,
		Planner:     p,
		Storage:     storage,
		Badges:      badges,
		Now:         time.Now,
	}
}

// CurrentWeekResponse 当前所处的学习周
type CurrentWeekResponse struct {
	PathID      string            `json:"pathId"`
	WeekNumber  int               `json:"weekNumber"`
	TotalWeeks  int               `json:"totalWeeks"`
	Finished    bool              `json:"finished"`
	CurrentPlan *planner.WeekPlan `json:"currentPlan,omitempty"`
}

// Generate 读取学习档案、运行规划器并保存为新的激活路径
func (s *LearningPathService) Generate(ctx context.Context, userID uint) (*model.LearningPath, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	result, err := s.Planner.GenerateLearningPath(ctx, planner.Profile{
		Skills:       profile.Skills,
		Goals:        profile.Goals,
		CareerStage:  profile.CareerStage,
		HoursPerWeek: profile.HoursPerWeek,
	})
	if err != nil {
		return nil, fmt.Errorf("generate learning path: %w", err)
	}

	path := &model.LearningPath{
		UserID:      userID,
		CareerPath:  result.CareerPath.Name,
		Category:    result.CareerPath.Category,
		Synthetic:   result.Synthetic,
		MatchScore:  result.MatchScore,
		TotalWeeks:  result.Data.TotalWeeks,
		TotalHours:  result.Data.TotalHours,
		Gaps:        result.Gaps,
		WeeklyPlans: result.Data.WeeklyPlans,
		Content:     planner.FormatPathContent(result),
		StartedAt:   s.now(),
	}
	if err := s.PathRepo.CreateActive(path); err != nil {
		return nil, err
	}

	if s.Badges != nil {
		if _, err := s.Badges.AwardBadge(userID, BadgePathPlanner, pathPlannerBadgeIcon, pathPlannerBadgeXP); err != nil {
			logger.Log.Warn("Award path planner badge failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	return path, nil
}

func (s *LearningPathService) GetActive(userID uint) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoActivePath
		}
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) List(userID uint, page, limit int) ([]model.LearningPath, int64, error) {
	return s.PathRepo.ListByUserID(userID, page, limit)
}

// Export 将路径正文上传到存储并记录访问地址
func (s *LearningPathService) Export(ctx context.Context, userID uint, pathID string) (string, error) {
	if !model.ValidUUID(pathID) {
		return "", util.ErrPathNotFound
	}
	path, err := s.PathRepo.FindByIDAndUserID(pathID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrPathNotFound
		}
		return "", err
	}

	filename := fmt.Sprintf("learning-paths/%d/%s.md", userID, path.ID)
	url, err := s.Storage.Upload(ctx, filename, strings.NewReader(path.Content), int64(len(path.Content)), util.MimeMarkdown)
	if err != nil {
		return "", fmt.Errorf("upload learning path: %w", err)
	}

	if err := s.PathRepo.UpdateExportURL(path.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

// CurrentWeek 返回 now 所在的周计划；路径已结束时 ok 为 false。
// 顶点项目周计划覆盖 SpanWeeks 周。
func (s *LearningPathService) CurrentWeek(path *model.LearningPath, now time.Time) (*planner.WeekPlan, int, bool) {
	weekNumber := 1
	if elapsed := now.Sub(path.StartedAt); elapsed > 0 {
		weekNumber = int(elapsed/week) + 1
	}

	for i := range path.WeeklyPlans {
		plan := &path.WeeklyPlans[i]
		span := plan.SpanWeeks
		if span < 1 {
			span = 1
		}
		if weekNumber >= plan.WeekNumber && weekNumber < plan.WeekNumber+span {
			return plan, weekNumber, true
		}
	}
	return nil, weekNumber, false
}

func (s *LearningPathService) GetCurrentWeek(userID uint) (*CurrentWeekResponse, error) {
	path, err := s.GetActive(userID)
	if err != nil {
		return nil, err
	}

	plan, weekNumber, ok := s.CurrentWeek(path, s.now())
	return &CurrentWeekResponse{
		PathID:      path.ID,
		WeekNumber:  weekNumber,
		TotalWeeks:  path.TotalWeeks,
		Finished:    !ok,
		CurrentPlan: plan,
	}, nil
}

func (s *LearningPathService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
