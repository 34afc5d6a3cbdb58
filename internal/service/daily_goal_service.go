package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillpath_backend/internal/config"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	defaultDailyWatchLimit = 2
	defaultXPPerGoal       = 10
)

// PointsAwarder 完成目标后的奖励，由成就服务实现
type PointsAwarder interface {
	AwardPoints(userID uint, points int, reason string) error
	EvaluateStreak(userID uint, today time.Time) ([]string, error)
}

type DailyGoalService struct {
	GoalRepo *repository.DailyGoalRepository
	Paths    *LearningPathService
	Awarder  PointsAwarder
	Cfg      config.GoalsConfig
	Now      func() time.Time

	group singleflight.Group
}

func NewDailyGoalService(
	goalRepo *repository.DailyGoalRepository,
	paths *LearningPathService,
	awarder PointsAwarder,
	cfg config.GoalsConfig,
) *DailyGoalService {
	return &DailyGoalService{
		GoalRepo: goalRepo,
		Paths:    paths,
		Awarder:  awarder,
		Cfg:      cfg,
		Now:      time.Now,
	}
}

// GenerateRecommended 按当前学习周生成当天目标；同一用户同一天只生成一次
func (s *DailyGoalService) GenerateRecommended(ctx context.Context, userID uint, day time.Time) ([]model.DailyGoal, error) {
	dayStr := day.Format(util.DateFormat)
	key := fmt.Sprintf("%d:%s", userID, dayStr)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 共享的生成过程不随单个调用方取消
	ch := s.group.DoChan(key, func() (interface{}, error) {
		existing, err := s.GoalRepo.FindByUserAndDay(userID, dayStr)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return existing, nil
		}

		path, err := s.Paths.GetActive(userID)
		if err != nil {
			return nil, err
		}

		plan, weekNumber, ok := s.Paths.CurrentWeek(path, day)
		if !ok {
			logger.Log.Debug("Learning path finished, no daily goals",
				zap.Uint("user_id", userID),
				zap.String("path_id", path.ID),
			)
			return []model.DailyGoal{}, nil
		}

		goals := s.buildGoals(userID, path.ID, dayStr, weekNumber, day.Weekday(), plan)
		if err := s.GoalRepo.CreateBatch(goals); err != nil {
			return nil, err
		}
		return goals, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.DailyGoal), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *DailyGoalService) buildGoals(userID uint, pathID, day string, weekNumber int, weekday time.Weekday, plan *planner.WeekPlan) []model.DailyGoal {
	limit := s.Cfg.DailyWatchLimit
	if limit <= 0 {
		limit = defaultDailyWatchLimit
	}
	xp := s.Cfg.XPPerGoal
	if xp <= 0 {
		xp = defaultXPPerGoal
	}

	newGoal := func(kind model.GoalKind, title, description string) model.DailyGoal {
		return model.DailyGoal{
			UserID:      userID,
			Day:         day,
			PathID:      pathID,
			WeekNumber:  weekNumber,
			Kind:        kind,
			Skill:       plan.Skill,
			Title:       title,
			Description: description,
			XPReward:    xp,
		}
	}

	var goals []model.DailyGoal

	// 视频按星期轮换，一周内尽量覆盖全部资源
	if n := len(plan.Resources); n > 0 {
		start := int(weekday) * limit % n
		for i := 0; i < limit && i < n; i++ {
			r := plan.Resources[(start+i)%n]
			g := newGoal(model.GoalWatch, "Watch: "+r.Title, r.Description)
			g.VideoID = r.VideoID
			goals = append(goals, g)
		}
	}

	if n := len(plan.Projects); n > 0 {
		p := plan.Projects[int(weekday)%n]
		goals = append(goals, newGoal(model.GoalProject, "Work on: "+p.Title, p.Description))
	}

	if plan.IsReviewWeek && len(plan.ReviewSkills) > 0 {
		skills := strings.Join(plan.ReviewSkills, ", ")
		goals = append(goals, newGoal(model.GoalReview, "Review: "+skills,
			fmt.Sprintf("Revisit your notes and exercises for %s.", skills)))
	}

	return goals
}

func (s *DailyGoalService) List(userID uint, day time.Time) ([]model.DailyGoal, error) {
	return s.GoalRepo.FindByUserAndDay(userID, day.Format(util.DateFormat))
}

// Complete 标记完成并发放经验；重复完成不会重复发放
func (s *DailyGoalService) Complete(userID, goalID uint) (*model.DailyGoal, error) {
	goal, err := s.GoalRepo.FindByIDAndUserID(goalID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGoalNotFound
		}
		return nil, err
	}
	if goal.Completed {
		return goal, nil
	}

	now := s.now()
	changed, err := s.GoalRepo.MarkCompleted(goal.ID, now)
	if err != nil {
		return nil, err
	}
	goal.Completed = true
	if !changed {
		return goal, nil
	}
	goal.CompletedAt = &now
	monitoring.DailyGoalsCompleted.Inc()

	if s.Awarder != nil {
		if err := s.Awarder.AwardPoints(userID, goal.XPReward, "daily goal: "+goal.Title); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(util.DateFormat, goal.Day, now.Location())
		if err != nil {
			day = now
		}
		if _, err := s.Awarder.EvaluateStreak(userID, day); err != nil {
			logger.Log.Warn("Evaluate streak failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return goal, nil
}

// GenerateForActiveUsers 后台任务：为所有拥有激活路径的用户预生成当天目标
func (s *DailyGoalService) GenerateForActiveUsers(ctx context.Context, day time.Time) (int, error) {
	userIDs, err := s.Paths.PathRepo.ActiveUserIDs()
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		if _, err := s.GenerateRecommended(ctx, id, day); err != nil {
			logger.Log.Warn("Pre-generate daily goals failed", zap.Uint("user_id", id), zap.Error(err))
			continue
		}
		generated++
	}
	return generated, nil
}

func (s *DailyGoalService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
