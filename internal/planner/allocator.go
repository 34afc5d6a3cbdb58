package planner

import "math"

const (
	minTotalWeeks        = 8
	maxReservedWeeks     = 4
	hoursPerDifficulty   = 10
	DefaultHoursPerWeek  = 10
	reservedWeeksDivisor = 4
)

// CalculateTotalWeeks max(8, ceil(Σ难度×10 / 每周小时数))
func CalculateTotalWeeks(gaps []SkillGap, hoursPerWeek int) int {
	if hoursPerWeek <= 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	totalHours := 0
	for _, g := range gaps {
		totalHours += g.Difficulty * hoursPerDifficulty
	}
	weeks := int(math.Ceil(float64(totalHours) / float64(hoursPerWeek)))
	if weeks < minTotalWeeks {
		return minTotalWeeks
	}
	return weeks
}

// ReservedWeeks 留给综合项目阶段的周数：min(4, total/4)
func ReservedWeeks(totalWeeks int) int {
	r := totalWeeks / reservedWeeksDivisor
	if r > maxReservedWeeks {
		return maxReservedWeeks
	}
	return r
}

// AllocateWeeks 按重要度比例把可分配周数分给各技能缺口，四舍五入后再校正，
// 保证 Σ周数 + 预留周数 == totalWeeks。缺口多于可分配周数时丢弃优先级最低的缺口；
// 没有缺口时全部周数都用于综合项目。
func AllocateWeeks(gaps []SkillGap, totalWeeks int) ([]GapAllocation, int) {
	if totalWeeks <= 0 {
		return nil, 0
	}
	if len(gaps) == 0 {
		return nil, totalWeeks
	}

	reserved := ReservedWeeks(totalWeeks)
	allocatable := totalWeeks - reserved
	if len(gaps) > allocatable {
		gaps = gaps[:allocatable]
	}

	weeks := proportionalWeeks(gaps, allocatable)
	rebalance(weeks, allocatable)

	out := make([]GapAllocation, len(gaps))
	for i, g := range gaps {
		out[i] = GapAllocation{Gap: g, Weeks: weeks[i]}
	}
	return out, reserved
}

// proportionalWeeks max(1, round(可分配周数 × 重要度 / Σ重要度))；
// 重要度总和为 0 时平均分配
func proportionalWeeks(gaps []SkillGap, allocatable int) []int {
	sum := 0.0
	for _, g := range gaps {
		sum += g.Importance
	}

	weeks := make([]int, len(gaps))
	for i, g := range gaps {
		share := 1.0 / float64(len(gaps))
		if sum > 0 {
			share = g.Importance / sum
		}
		w := int(math.Round(float64(allocatable) * share))
		if w < 1 {
			w = 1
		}
		weeks[i] = w
	}
	return weeks
}

// rebalance 不足时从最高优先级开始逐个 +1，超出时从最低优先级开始对 >1 的逐个 -1
func rebalance(weeks []int, allocatable int) {
	if len(weeks) == 0 {
		return
	}

	diff := allocatable - sum(weeks)
	for i := 0; diff > 0; i = (i + 1) % len(weeks) {
		weeks[i]++
		diff--
	}

	for diff < 0 {
		changed := false
		for i := len(weeks) - 1; i >= 0 && diff < 0; i-- {
			if weeks[i] > 1 {
				weeks[i]--
				diff++
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
