package planner

import (
	"strings"
	"unicode"
)

// tokenize 按非字母数字边界切分并转为小写
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// extractGoalKeywords 目标文本中长度大于 3 的单词，保持出现顺序并去重
func extractGoalKeywords(goals string) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, w := range tokenize(goals) {
		if len([]rune(w)) <= 3 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

// countKeywordHits 统计 text 中包含的关键词个数（子串匹配）
func countKeywordHits(text string, keywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return hits
}

// orderedSet 按插入顺序去重（不区分大小写），保留首次出现的写法
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *orderedSet) list() []string {
	return s.items
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
