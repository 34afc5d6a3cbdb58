package planner

import (
	"context"
	"fmt"
	"strings"

	"skillpath_backend/internal/resource"
)

// phase 单个技能学习周期内的进度阶段
type phase int

const (
	phaseIntroduction phase = iota
	phaseIntermediate
	phaseAdvanced
)

const (
	reviewInterval        = 3
	reviewSkillCount      = 2
	capstoneSearchContext = "project"
)

func phaseFor(weekIndex, weeksAllocated int) phase {
	if weeksAllocated <= 0 {
		return phaseIntroduction
	}
	ratio := float64(weekIndex) / float64(weeksAllocated)
	switch {
	case ratio < 0.3:
		return phaseIntroduction
	case ratio < 0.7:
		return phaseIntermediate
	default:
		return phaseAdvanced
	}
}

// searchContext 资源检索使用的难度上下文
func (ph phase) searchContext() string {
	switch ph {
	case phaseIntermediate:
		return "intermediate"
	case phaseAdvanced:
		return "advanced"
	default:
		return "beginner"
	}
}

func (ph phase) difficultyLabel() string {
	switch ph {
	case phaseIntermediate:
		return "Intermediate"
	case phaseAdvanced:
		return "Advanced"
	default:
		return "Beginner"
	}
}

func (ph phase) describe(skill string, path CareerPath) string {
	switch ph {
	case phaseIntermediate:
		return fmt.Sprintf("Intermediate %s: apply %s to realistic problems and build confidence through deliberate practice.", skill, skill)
	case phaseAdvanced:
		return fmt.Sprintf("Advanced %s: master complex patterns and the best practices expected from a professional %s.", skill, path.Name)
	default:
		return fmt.Sprintf("Introduction to %s: learn the core concepts and terminology, set up your tools and complete guided exercises.", skill)
	}
}

func (ph phase) projectFocus() string {
	switch ph {
	case phaseIntermediate:
		return "Add error handling, tests and a clean structure."
	case phaseAdvanced:
		return "Optimise it, document it and polish it for your portfolio."
	default:
		return "Focus on getting a small, working result end to end."
	}
}

// BuildCurriculum 依据周数分配生成逐周计划，末尾追加一个覆盖剩余周数的综合项目周。
// 周序号从 1 开始连续递增。
func (p *Planner) BuildCurriculum(ctx context.Context, allocations []GapAllocation, totalWeeks, hoursPerWeek int, goals string, path CareerPath) (*LearningPathData, error) {
	if hoursPerWeek <= 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}

	var plans []WeekPlan
	covered := newOrderedSet()
	weekNumber := 0
	allocated := 0

	for _, alloc := range allocations {
		skill := alloc.Gap.Name
		covered.add(skill)
		allocated += alloc.Weeks

		for i := 0; i < alloc.Weeks; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			weekNumber++

			ph := phaseFor(i, alloc.Weeks)
			plan := WeekPlan{
				WeekNumber:     weekNumber,
				Skill:          skill,
				Description:    fmt.Sprintf("%s (week %d of %d on this skill)", ph.describe(skill, path), i+1, alloc.Weeks),
				HoursAllocated: hoursPerWeek,
				Resources:      p.resolve(ctx, skill, ph.searchContext()),
				Projects:       generateProjectIdeas(skill, ph, weekNumber, path, goals),
				SpanWeeks:      1,
			}

			if (i+1)%reviewInterval == 0 {
				plan.IsReviewWeek = true
				plan.ReviewSkills = lastN(covered.list(), reviewSkillCount)
				plan.Description += fmt.Sprintf(" Review week: consolidate %s.", strings.Join(plan.ReviewSkills, " and "))
			}

			plans = append(plans, plan)
		}
	}

	remaining := totalWeeks - allocated
	if remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		weekNumber++
		plans = append(plans, p.capstoneWeek(ctx, weekNumber, remaining, hoursPerWeek, goals, path, covered.list()))
	}

	return &LearningPathData{
		TotalHours:  totalWeeks * hoursPerWeek,
		TotalWeeks:  totalWeeks,
		WeeklyPlans: plans,
	}, nil
}

func (p *Planner) capstoneWeek(ctx context.Context, weekNumber, span, hoursPerWeek int, goals string, path CareerPath, covered []string) WeekPlan {
	skills := covered
	if len(skills) == 0 {
		skills = path.Skills
	}

	weeksLabel := fmt.Sprintf("week %d", weekNumber)
	if span > 1 {
		weeksLabel = fmt.Sprintf("weeks %d-%d", weekNumber, weekNumber+span-1)
	}

	return WeekPlan{
		WeekNumber:     weekNumber,
		Skill:          path.Name,
		Description:    fmt.Sprintf("Capstone integration (%s): combine everything you have learned into a %s portfolio project.", weeksLabel, path.Name),
		HoursAllocated: hoursPerWeek * span,
		Resources:      p.resolve(ctx, path.Name, capstoneSearchContext),
		Projects:       generateCapstoneProjects(path, skills, goals),
		IsCapstone:     true,
		SpanWeeks:      span,
	}
}

func (p *Planner) resolve(ctx context.Context, skill, searchContext string) []resource.VideoResource {
	if p.Resources == nil {
		return nil
	}
	return p.Resources.Resolve(ctx, skill, searchContext, p.ResourcesPerWeek)
}

// generateProjectIdeas 每周 1-3 个项目：基础项目；第 2 周起加专项项目；第 4 周起加集成项目
func generateProjectIdeas(skill string, ph phase, weekNumber int, path CareerPath, goals string) []ProjectIdea {
	label := ph.difficultyLabel()
	ideas := []ProjectIdea{{
		Title:          fmt.Sprintf("%s %s Project", label, skill),
		Description:    fmt.Sprintf("Build a %s-level %s project using %s. %s", strings.ToLower(label), path.Category, skill, ph.projectFocus()),
		RequiredSkills: []string{skill},
	}}

	if weekNumber < 2 {
		return ideas
	}

	domain := classifyDomain(skill, goals)
	themes := projectThemes[domain]
	theme := themes[(weekNumber-2)%len(themes)]
	ideas = append(ideas, ProjectIdea{
		Title:          fmt.Sprintf("%s with %s", theme, skill),
		Description:    fmt.Sprintf("Create a %s that showcases %s in a %s setting.", strings.ToLower(theme), skill, domain),
		RequiredSkills: []string{skill},
	})

	if weekNumber < 4 {
		return ideas
	}

	partner := complementarySkills[domain]
	if strings.EqualFold(partner, skill) {
		partner = fallbackComplementarySkill
	}
	ideas = append(ideas, ProjectIdea{
		Title:          fmt.Sprintf("%s + %s Integration", skill, partner),
		Description:    fmt.Sprintf("Combine %s with %s to deliver a feature that needs both, the way %s teams work day to day.", skill, partner, path.Category),
		RequiredSkills: []string{skill, partner},
	})
	return ideas
}

// generateCapstoneProjects 综合作品集项目 + 基于目标主题（或职业名）的专项项目
func generateCapstoneProjects(path CareerPath, skills []string, goals string) []ProjectIdea {
	primary := ProjectIdea{
		Title:          fmt.Sprintf("%s Portfolio Capstone", path.Name),
		Description:    fmt.Sprintf("Design and ship a complete project that brings together %s. Document your decisions and publish it as the centrepiece of your %s portfolio.", strings.Join(skills, ", "), path.Name),
		RequiredSkills: skills,
	}

	alternative := ProjectIdea{
		Title:          fmt.Sprintf("Specialized %s Project", path.Name),
		Description:    fmt.Sprintf("Pick a real problem a %s would face and solve it end to end with the skills from this path.", path.Name),
		RequiredSkills: skills,
	}
	if theme, ok := themeKeyword(extractGoalKeywords(goals)); ok {
		alternative.Title = fmt.Sprintf("%s Specialization Project", titleWord(theme))
		alternative.Description = fmt.Sprintf("Apply the skills from this path to a focused %s problem of your choice and present the results as a %s.", theme, path.Name)
	}

	return []ProjectIdea{primary, alternative}
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		out := make([]string, len(items))
		copy(out, items)
		return out
	}
	out := make([]string, n)
	copy(out, items[len(items)-n:])
	return out
}
