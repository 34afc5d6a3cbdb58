package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"skillpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const DefaultResourcesPerWeek = 3

var ErrNilKnowledgeBase = errors.New("planner requires a knowledge base")

// Planner 自适应学习路径规划器。除知识库与资源缓存外不持有跨请求状态。
type Planner struct {
	KB               *KnowledgeBase
	Resources        ResourceResolver
	ResourcesPerWeek int
}

func NewPlanner(kb *KnowledgeBase, resources ResourceResolver) *Planner {
	return &Planner{
		KB:               kb,
		Resources:        resources,
		ResourcesPerWeek: DefaultResourcesPerWeek,
	}
}

// PlanResult 一次规划的完整结果
type PlanResult struct {
	CareerPath       CareerPath       `json:"careerPath"`
	Synthetic        bool             `json:"synthetic"`
	MatchScore       float64          `json:"matchScore"`
	NormalizedSkills []string         `json:"normalizedSkills"`
	Gaps             []SkillGap       `json:"gaps"`
	Data             LearningPathData `json:"data"`
}

// GenerateLearningPath 技能归一化 → 职业路径匹配 → 缺口分析 → 周数分配 → 课程生成
func (p *Planner) GenerateLearningPath(ctx context.Context, profile Profile) (*PlanResult, error) {
	if p.KB == nil {
		return nil, ErrNilKnowledgeBase
	}

	ctx, span := tracing.Tracer.Start(ctx, "planner.GenerateLearningPath")
	defer span.End()

	hours := profile.HoursPerWeek
	if hours <= 0 {
		hours = DefaultHoursPerWeek
	}

	skills := p.KB.NormalizeSkills(profile.Skills)
	match := p.KB.FindOptimalCareerPath(skills, profile.Goals, profile.CareerStage)

	required := p.KB.RequiredSkills(match.Path, profile.Goals)
	gaps := PrioritizeGaps(p.KB.IdentifySkillGaps(required, skills), match.Path, profile.Goals)

	totalWeeks := CalculateTotalWeeks(gaps, hours)
	allocations, reserved := AllocateWeeks(gaps, totalWeeks)

	span.SetAttributes(
		attribute.String("career_path", match.Path.Name),
		attribute.Bool("synthetic", match.Synthetic),
		attribute.Int("gaps", len(gaps)),
		attribute.Int("total_weeks", totalWeeks),
		attribute.Int("reserved_weeks", reserved),
	)

	data, err := p.BuildCurriculum(ctx, allocations, totalWeeks, hours, profile.Goals, match.Path)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("build curriculum: %w", err)
	}

	source := "catalog"
	if match.Synthetic {
		source = "synthetic"
	}
	monitoring.PlansGenerated.WithLabelValues(source).Inc()

	logger.Log.Info("Learning path generated",
		zap.String("career_path", match.Path.Name),
		zap.String("source", source),
		zap.Float64("match_score", match.Score),
		zap.Int("gaps", len(gaps)),
		zap.Int("total_weeks", totalWeeks),
	)

	return &PlanResult{
		CareerPath:       match.Path,
		Synthetic:        match.Synthetic,
		MatchScore:       match.Score,
		NormalizedSkills: skills,
		Gaps:             gaps,
		Data:             *data,
	}, nil
}

// FormatPathContent 渲染为持久化用的文本文档（Markdown）
func FormatPathContent(result *PlanResult) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Learning Path: %s\n\n", result.CareerPath.Name)
	fmt.Fprintf(&b, "Category: %s\n", result.CareerPath.Category)
	fmt.Fprintf(&b, "Duration: %d weeks (%d hours total)\n\n", result.Data.TotalWeeks, result.Data.TotalHours)

	if len(result.Gaps) > 0 {
		b.WriteString("## Skills to develop\n\n")
		for _, g := range result.Gaps {
			fmt.Fprintf(&b, "- %s (difficulty %d, priority %.2f): %s\n", g.Name, g.Difficulty, g.Importance, g.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Weekly plan\n\n")
	for _, w := range result.Data.WeeklyPlans {
		if w.IsCapstone && w.SpanWeeks > 1 {
			fmt.Fprintf(&b, "### Weeks %d-%d: %s\n\n", w.WeekNumber, w.WeekNumber+w.SpanWeeks-1, w.Skill)
		} else {
			fmt.Fprintf(&b, "### Week %d: %s\n\n", w.WeekNumber, w.Skill)
		}
		fmt.Fprintf(&b, "%s\n\n", w.Description)
		fmt.Fprintf(&b, "Hours: %d\n\n", w.HoursAllocated)

		if len(w.Resources) > 0 {
			b.WriteString("Resources:\n")
			for _, r := range w.Resources {
				fmt.Fprintf(&b, "- %s (%s) https://www.youtube.com/watch?v=%s\n", r.Title, r.Channel, r.VideoID)
			}
			b.WriteString("\n")
		}

		if len(w.Projects) > 0 {
			b.WriteString("Projects:\n")
			for _, pr := range w.Projects {
				fmt.Fprintf(&b, "- %s: %s\n", pr.Title, pr.Description)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
