package planner

import (
	"math"
	"sort"
)

const (
	maxPrioritizedGaps       = 7
	defaultGapDifficulty     = 3
	defaultGapDescription    = "Essential skill for your goals"
	careerImportanceInPath   = 0.6
	careerImportanceOutside  = 0.2
	goalImportancePerKeyword = 0.15
	weightCareerImportance   = 0.6
	weightGoalImportance     = 0.4
)

// RequiredSkills 职业路径技能及其关联技能，再加上目标关键词命中的目录技能
func (kb *KnowledgeBase) RequiredSkills(path CareerPath, goals string) []string {
	keywords := extractGoalKeywords(goals)

	required := newOrderedSet()
	for _, s := range path.Skills {
		required.add(s)
		required.add(kb.RelatedSkills(s)...)
	}
	if len(keywords) > 0 {
		for _, s := range kb.skills {
			if countKeywordHits(s.Name, keywords) > 0 {
				required.add(s.Name)
			}
		}
	}
	return required.list()
}

// IdentifySkillGaps 必需技能中用户尚未掌握的部分，重要度尚未计算
func (kb *KnowledgeBase) IdentifySkillGaps(required, userSkills []string) []SkillGap {
	var gaps []SkillGap
	for _, name := range required {
		if knowsSkill(userSkills, name) {
			continue
		}
		gap := SkillGap{
			Name:        name,
			Description: defaultGapDescription,
			Difficulty:  defaultGapDifficulty,
		}
		if s, ok := kb.Skill(name); ok {
			gap.Description = s.Description
			if s.Difficulty > 0 {
				gap.Difficulty = s.Difficulty
			}
		}
		gaps = append(gaps, gap)
	}
	return gaps
}

// PrioritizeGaps 原地计算重要度，按重要度降序稳定排序并截取前 7 项
func PrioritizeGaps(gaps []SkillGap, path CareerPath, goals string) []SkillGap {
	keywords := extractGoalKeywords(goals)
	for i := range gaps {
		gaps[i].Importance = gapImportance(gaps[i].Name, path, keywords)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Importance > gaps[j].Importance
	})

	if len(gaps) > maxPrioritizedGaps {
		gaps = gaps[:maxPrioritizedGaps]
	}
	return gaps
}

func gapImportance(name string, path CareerPath, keywords []string) float64 {
	career := careerImportanceOutside
	for _, s := range path.Skills {
		if s == name {
			career = careerImportanceInPath
			break
		}
	}
	goal := math.Min(1, goalImportancePerKeyword*float64(countKeywordHits(name, keywords)))
	return weightCareerImportance*career + weightGoalImportance*goal
}
