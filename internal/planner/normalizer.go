package planner

import "strings"

// skillMatchThreshold 相似度必须严格大于该值才替换为目录中的技能名
const skillMatchThreshold = 0.65

// NormalizeSkills 将用户自由输入的技能映射到知识库中的技能名，
// 找不到足够相似的条目时保留原始字符串。输出与输入等长。
func (kb *KnowledgeBase) NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, raw := range skills {
		out = append(out, kb.normalizeSkill(raw))
	}
	return out
}

func (kb *KnowledgeBase) normalizeSkill(raw string) string {
	input := tokenSet(raw)
	if len(input) == 0 {
		return raw
	}

	best := ""
	bestScore := 0.0
	for _, s := range kb.skills {
		score := tokenSimilarity(input, tokenSet(s.Name))
		if score > bestScore {
			best = s.Name
			bestScore = score
		}
	}

	if bestScore > skillMatchThreshold {
		return best
	}
	return raw
}

// tokenSimilarity 2×|A∩B| / (|A|+|B|)
func tokenSimilarity(a, b map[string]struct{}) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(a)+len(b))
}

// knowsSkill 用户技能中是否包含 name（不区分大小写）
func knowsSkill(userSkills []string, name string) bool {
	for _, s := range userSkills {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}
