package service

import (
	"errors"
	"time"

	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	xpPerLevel = 200

	BadgePathPlanner = "Path Planner"
	BadgeStreak3     = "3-Day Streak"
	BadgeStreak7     = "7-Day Streak"
)

type streakBadge struct {
	days int
	name string
	icon string
	xp   int
}

var streakBadges = []streakBadge{
	{days: 3, name: BadgeStreak3, icon: "flame", xp: 30},
	{days: 7, name: BadgeStreak7, icon: "fire", xp: 100},
}

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
	GoalRepo        *repository.DailyGoalRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	goalRepo *repository.DailyGoalRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
		GoalRepo:        goalRepo,
	}
}

type UserAchievements struct {
	TotalXP      int                 `json:"totalXp"`
	CurrentLevel int                 `json:"currentLevel"`
	NextLevelXP  int                 `json:"nextLevelXp"`
	Rank         int                 `json:"rank"`
	Streak       int                 `json:"streak"`
	Badges       []model.Achievement `json:"badges"`
	Leaderboard  []LeaderboardEntry  `json:"leaderboard"`
}

type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	User  string `json:"user"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

func (s *AchievementService) AwardPoints(userID uint, points int, reason string) error {
	if points <= 0 {
		return nil
	}
	if err := s.UserRepo.UpdateXP(userID, points); err != nil {
		return err
	}
	logger.Log.Info("XP awarded",
		zap.Uint("user_id", userID),
		zap.Int("points", points),
		zap.String("reason", reason),
	)
	return nil
}

// AwardBadge 按名称幂等发放徽章，返回本次是否新发放
func (s *AchievementService) AwardBadge(userID uint, name, icon string, xp int) (bool, error) {
	exists, err := s.AchievementRepo.Exists(userID, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	badge := &model.Achievement{
		UserID:   userID,
		Name:     name,
		Icon:     icon,
		EarnedXP: xp,
	}
	if err := s.AchievementRepo.CreateWithXP(badge); err != nil {
		// 并发发放时唯一索引冲突，视为已发放
		if again, _ := s.AchievementRepo.Exists(userID, name); again {
			return false, nil
		}
		return false, err
	}

	logger.Log.Info("Badge awarded", zap.Uint("user_id", userID), zap.String("badge", name))
	return true, nil
}

// EvaluateStreak 以 today 结尾的连续完成天数达到阈值时发放连续打卡徽章
func (s *AchievementService) EvaluateStreak(userID uint, today time.Time) ([]string, error) {
	streak, err := s.currentStreak(userID, today)
	if err != nil {
		return nil, err
	}

	var awarded []string
	for _, b := range streakBadges {
		if streak < b.days {
			continue
		}
		ok, err := s.AwardBadge(userID, b.name, b.icon, b.xp)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, b.name)
		}
	}
	return awarded, nil
}

func (s *AchievementService) currentStreak(userID uint, today time.Time) (int, error) {
	if s.GoalRepo == nil {
		return 0, nil
	}
	days, err := s.GoalRepo.CompletedDays(userID, streakBadges[len(streakBadges)-1].days)
	if err != nil {
		return 0, err
	}
	return countStreak(days, today), nil
}

// countStreak days 为倒序日期
func countStreak(days []string, today time.Time) int {
	expected := today
	streak := 0
	for _, d := range days {
		if d != expected.Format(util.DateFormat) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

func (s *AchievementService) GetUserAchievements(userID uint) (*UserAchievements, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	achievements, err := s.AchievementRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := s.GetLeaderboard(10)
	if err != nil {
		return nil, err
	}

	ahead, err := s.UserRepo.CountWithMoreXP(user.XP)
	if err != nil {
		return nil, err
	}

	streak, err := s.currentStreak(userID, time.Now())
	if err != nil {
		return nil, err
	}

	level, nextLevelXP := calculateLevel(user.XP)

	return &UserAchievements{
		TotalXP:      user.XP,
		CurrentLevel: level,
		NextLevelXP:  nextLevelXP,
		Rank:         int(ahead) + 1,
		Streak:       streak,
		Badges:       achievements,
		Leaderboard:  leaderboard,
	}, nil
}

func (s *AchievementService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		level, _ := calculateLevel(user.XP)
		leaderboard[i] = LeaderboardEntry{
			Rank:  i + 1,
			User:  user.Name,
			XP:    user.XP,
			Level: level,
		}
	}

	return leaderboard, nil
}

func calculateLevel(xp int) (int, int) {
	// 每200XP升一级
	level := xp / xpPerLevel
	nextLevelXP := (level + 1) * xpPerLevel
	return level, nextLevelXP
}
