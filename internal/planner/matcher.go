package planner

import "fmt"

const (
	weightNameOverlap    = 0.25
	weightGoalKeywords   = 0.40
	weightSkillOverlap   = 0.25
	weightRelatedSkills  = 0.10
	minCareerMatchScore  = 0.3
	customCareerCategory = "General"
)

// MatchResult 职业路径匹配结果
type MatchResult struct {
	Path      CareerPath
	Score     float64
	Synthetic bool
}

// FindOptimalCareerPath 为用户挑选得分最高的目录职业路径；
// 最高分低于 0.3（或目录为空）时合成一条专属路径。永远返回一条路径。
func (kb *KnowledgeBase) FindOptimalCareerPath(userSkills []string, goals, careerStage string) MatchResult {
	keywords := extractGoalKeywords(goals)
	stageTokens := tokenSet(careerStage)

	bestIdx := -1
	bestScore := 0.0
	for i, p := range kb.careerPaths {
		score := kb.scoreCareerPath(p, userSkills, keywords, stageTokens)
		if bestIdx < 0 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	if bestIdx >= 0 && bestScore >= minCareerMatchScore {
		return MatchResult{Path: kb.careerPaths[bestIdx], Score: bestScore}
	}

	return MatchResult{
		Path:      kb.synthesizeCareerPath(userSkills, keywords),
		Score:     bestScore,
		Synthetic: true,
	}
}

// ScoreCareerPath 对外暴露单条路径的加权得分
func (kb *KnowledgeBase) ScoreCareerPath(p CareerPath, userSkills []string, goals, careerStage string) float64 {
	return kb.scoreCareerPath(p, userSkills, extractGoalKeywords(goals), tokenSet(careerStage))
}

func (kb *KnowledgeBase) scoreCareerPath(p CareerPath, userSkills, keywords []string, stageTokens map[string]struct{}) float64 {
	return weightNameOverlap*nameOverlap(p, stageTokens) +
		weightGoalKeywords*goalKeywordOverlap(p, keywords) +
		weightSkillOverlap*skillOverlap(p, userSkills) +
		weightRelatedSkills*kb.relatedSkillPotential(p, userSkills)
}

// nameOverlap 路径名称中出现在职业阶段描述里的词占比
func nameOverlap(p CareerPath, stageTokens map[string]struct{}) float64 {
	nameTokens := tokenize(p.Name)
	if len(nameTokens) == 0 || len(stageTokens) == 0 {
		return 0
	}
	hits := 0
	for _, t := range nameTokens {
		if _, ok := stageTokens[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(nameTokens))
}

// goalKeywordOverlap 路径技能中包含任一目标关键词的占比
func goalKeywordOverlap(p CareerPath, keywords []string) float64 {
	if len(p.Skills) == 0 || len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, s := range p.Skills {
		if countKeywordHits(s, keywords) > 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(p.Skills))
}

// skillOverlap 路径技能中用户已掌握的占比
func skillOverlap(p CareerPath, userSkills []string) float64 {
	if len(p.Skills) == 0 {
		return 0
	}
	hits := 0
	for _, s := range p.Skills {
		if knowsSkill(userSkills, s) {
			hits++
		}
	}
	return float64(hits) / float64(len(p.Skills))
}

// relatedSkillPotential 每项路径技能的关联技能中用户已掌握比例的平均值
func (kb *KnowledgeBase) relatedSkillPotential(p CareerPath, userSkills []string) float64 {
	if len(p.Skills) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range p.Skills {
		related := kb.RelatedSkills(s)
		if len(related) == 0 {
			continue
		}
		known := 0
		for _, r := range related {
			if knowsSkill(userSkills, r) {
				known++
			}
		}
		total += float64(known) / float64(len(related))
	}
	return total / float64(len(p.Skills))
}

// synthesizeCareerPath 目录中没有合适路径时，根据目标关键词拼装一条
func (kb *KnowledgeBase) synthesizeCareerPath(userSkills, keywords []string) CareerPath {
	track, matched := matchTrack(keywords)
	info := trackInfos[track]

	name := info.name
	category := info.category
	if !matched && len(keywords) > 0 {
		theme, ok := themeKeyword(keywords)
		if !ok {
			theme = keywords[0]
		}
		name = fmt.Sprintf("Custom %s Specialist", titleWord(theme))
		category = customCareerCategory
	}

	// 目标命中的目录技能 → 已有技能的关联技能 → 方向基础技能
	skills := newOrderedSet()
	for _, s := range kb.skills {
		if countKeywordHits(s.Name, keywords) > 0 {
			skills.add(s.Name)
		}
	}
	for _, us := range userSkills {
		skills.add(kb.RelatedSkills(us)...)
	}
	skills.add(info.fundamentals...)

	return CareerPath{
		Name:     name,
		Category: category,
		Skills:   skills.list(),
	}
}

// themeKeyword 第一个非填充词
func themeKeyword(keywords []string) (string, bool) {
	for _, k := range keywords {
		if _, filler := fillerKeywords[k]; !filler {
			return k, true
		}
	}
	return "", false
}
