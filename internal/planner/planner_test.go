package planner

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"skillpath_backend/internal/resource"
)

type recordingResolver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingResolver) Resolve(_ context.Context, skill, searchContext string, n int) []resource.VideoResource {
	r.mu.Lock()
	r.calls = append(r.calls, skill+"|"+searchContext)
	r.mu.Unlock()

	out := make([]resource.VideoResource, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, resource.VideoResource{
			Title:   skill + " video",
			VideoID: strings.ToLower(strings.ReplaceAll(skill, " ", "-")),
			Channel: "test",
		})
	}
	return out
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, int) ([]resource.SearchItem, error) {
	return nil, errors.New("search backend down")
}

// checkPlanShape 周序号从 1 连续递增，缺口按重要度降序且不超过 7 个
func checkPlanShape(t *testing.T, result *PlanResult) {
	t.Helper()
	for i, plan := range result.Data.WeeklyPlans {
		if plan.WeekNumber != i+1 {
			t.Fatalf("plan %d has week number %d", i, plan.WeekNumber)
		}
	}
	if len(result.Gaps) > maxPrioritizedGaps {
		t.Fatalf("expected at most %d gaps, got %d", maxPrioritizedGaps, len(result.Gaps))
	}
	for i := 1; i < len(result.Gaps); i++ {
		if result.Gaps[i-1].Importance < result.Gaps[i].Importance {
			t.Fatalf("gaps not sorted by importance at %d: %+v", i, result.Gaps)
		}
	}
}

func mustDefaultKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb, err := DefaultKnowledgeBase()
	if err != nil {
		t.Fatalf("load default knowledge base: %v", err)
	}
	return kb
}

func TestDefaultKnowledgeBase(t *testing.T) {
	kb := mustDefaultKB(t)

	if kb.Version() <= 0 {
		t.Fatalf("expected a positive version, got %d", kb.Version())
	}
	if len(kb.CareerPaths()) == 0 {
		t.Fatal("expected career paths in the bundled dataset")
	}
	if _, ok := kb.Skill("python"); !ok {
		t.Fatal("skill lookup should be case-insensitive")
	}
	if related := kb.RelatedSkills("Python"); len(related) == 0 {
		t.Fatal("expected Python to declare related skills")
	}
	if kb.RelatedSkills("Underwater Basket Weaving") != nil {
		t.Fatal("unknown skill should have no related skills")
	}
}

func TestNewKnowledgeBaseRejectsEmpty(t *testing.T) {
	if _, err := NewKnowledgeBase(1, nil, nil); err != ErrEmptyKnowledgeBase {
		t.Fatalf("expected ErrEmptyKnowledgeBase, got %v", err)
	}
	if _, err := NewKnowledgeBase(1, []Skill{{Name: "  "}}, nil); err == nil {
		t.Fatal("expected an error for an unnamed skill")
	}
}

func TestNewKnowledgeBaseDeduplicates(t *testing.T) {
	kb, err := NewKnowledgeBase(1, []Skill{
		{Name: "Go", Difficulty: 2},
		{Name: "go", Difficulty: 5},
	}, nil)
	if err != nil {
		t.Fatalf("NewKnowledgeBase: %v", err)
	}
	if got := len(kb.Skills()); got != 1 {
		t.Fatalf("expected 1 skill after dedupe, got %d", got)
	}
	s, _ := kb.Skill("GO")
	if s.Difficulty != 2 {
		t.Fatalf("first declaration should win, got difficulty %d", s.Difficulty)
	}
}

func TestNormalizeSkills(t *testing.T) {
	kb := mustDefaultKB(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact lowercase", "python", "Python"},
		{"extra whitespace", "  machine   learning ", "Machine Learning"},
		{"punctuation", "data-analysis", "Data Analysis"},
		{"unknown kept verbatim", "Underwater Basket Weaving", "Underwater Basket Weaving"},
		{"empty kept", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kb.NormalizeSkills([]string{tt.in})
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("NormalizeSkills(%q) = %v, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSkillsPreservesLength(t *testing.T) {
	kb := mustDefaultKB(t)
	in := []string{"python", "python", "nonsense-skill-xyz"}
	if got := kb.NormalizeSkills(in); len(got) != len(in) {
		t.Fatalf("expected %d skills, got %d", len(in), len(got))
	}
}

func TestFindOptimalCareerPathSynthesizesDataScientist(t *testing.T) {
	kb := mustDefaultKB(t)

	match := kb.FindOptimalCareerPath([]string{"Python"}, "I want to become a data scientist", "")
	if !match.Synthetic {
		t.Fatalf("expected a synthetic path, got catalog path %q (score %.2f)", match.Path.Name, match.Score)
	}
	if match.Path.Name != "Data Scientist" {
		t.Fatalf("expected Data Scientist, got %q", match.Path.Name)
	}
	want := []string{
		"Data Structures", "Data Analysis", "Data Visualization",
		"NumPy", "Pandas",
		"Python", "Statistics", "Machine Learning", "SQL",
	}
	if strings.Join(match.Path.Skills, ",") != strings.Join(want, ",") {
		t.Fatalf("synthetic skills = %v, want %v", match.Path.Skills, want)
	}
}

func TestFindOptimalCareerPathEmptyProfile(t *testing.T) {
	kb := mustDefaultKB(t)

	match := kb.FindOptimalCareerPath(nil, "", "")
	if !match.Synthetic {
		t.Fatal("expected a synthetic path for an empty profile")
	}
	if match.Path.Name != "Software Developer" {
		t.Fatalf("expected Software Developer, got %q", match.Path.Name)
	}
	if len(match.Path.Skills) == 0 {
		t.Fatal("synthetic path must carry skills")
	}
}

func TestFindOptimalCareerPathPicksCatalog(t *testing.T) {
	kb := mustDefaultKB(t)

	skills := []string{"HTML", "CSS", "JavaScript", "React"}
	match := kb.FindOptimalCareerPath(skills, "build responsive javascript react interfaces", "frontend developer")
	if match.Synthetic {
		t.Fatalf("expected a catalog path, score %.2f", match.Score)
	}
	if match.Path.Name != "Frontend Developer" {
		t.Fatalf("expected Frontend Developer, got %q", match.Path.Name)
	}
	if match.Score < minCareerMatchScore {
		t.Fatalf("catalog match below threshold: %.2f", match.Score)
	}
}

func TestFindOptimalCareerPathCustomTheme(t *testing.T) {
	kb := mustDefaultKB(t)

	match := kb.FindOptimalCareerPath(nil, "I want to learn robotics", "")
	if !match.Synthetic {
		t.Fatal("expected a synthetic path")
	}
	if match.Path.Name != "Custom Robotics Specialist" {
		t.Fatalf("unexpected name %q", match.Path.Name)
	}
	if match.Path.Category != customCareerCategory {
		t.Fatalf("unexpected category %q", match.Path.Category)
	}
}

func TestPrioritizeGaps(t *testing.T) {
	kb := mustDefaultKB(t)
	goals := "I want to become a data scientist"

	match := kb.FindOptimalCareerPath([]string{"Python"}, goals, "")
	required := kb.RequiredSkills(match.Path, goals)
	gaps := PrioritizeGaps(kb.IdentifySkillGaps(required, []string{"Python"}), match.Path, goals)

	want := []string{
		"Data Structures", "Data Analysis", "Data Visualization",
		"Pandas", "SQL", "Statistics", "NumPy",
	}
	if len(gaps) != len(want) {
		t.Fatalf("expected %d gaps, got %d: %+v", len(want), len(gaps), gaps)
	}
	for i, g := range gaps {
		if g.Name != want[i] {
			t.Fatalf("gap %d = %q, want %q", i, g.Name, want[i])
		}
		if i > 0 && gaps[i-1].Importance < g.Importance {
			t.Fatalf("gaps not sorted by importance at %d", i)
		}
		if strings.EqualFold(g.Name, "Python") {
			t.Fatal("known skill reported as a gap")
		}
	}
}

func TestIdentifySkillGapsDefaultsForUnknownSkill(t *testing.T) {
	kb := mustDefaultKB(t)

	gaps := kb.IdentifySkillGaps([]string{"Quantum Knitting"}, nil)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if gaps[0].Difficulty != defaultGapDifficulty || gaps[0].Description != defaultGapDescription {
		t.Fatalf("unexpected defaults: %+v", gaps[0])
	}
}

func TestCalculateTotalWeeks(t *testing.T) {
	tests := []struct {
		name  string
		diffs []int
		hours int
		want  int
	}{
		{"minimum eight", []int{1}, 10, 8},
		{"no gaps", nil, 10, 8},
		{"scaled by hours", []int{4, 4, 4}, 5, 24},
		{"rounds up", []int{3, 3, 3, 3, 3}, 7, 22},
		{"non-positive hours defaults", []int{5, 5}, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gaps []SkillGap
			for _, d := range tt.diffs {
				gaps = append(gaps, SkillGap{Difficulty: d})
			}
			if got := CalculateTotalWeeks(gaps, tt.hours); got != tt.want {
				t.Fatalf("CalculateTotalWeeks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAllocateWeeksProportional(t *testing.T) {
	gaps := []SkillGap{
		{Name: "A", Importance: 0.8},
		{Name: "B", Importance: 0.2},
	}

	allocs, reserved := AllocateWeeks(gaps, 13)
	if reserved != 3 {
		t.Fatalf("expected 3 reserved weeks, got %d", reserved)
	}
	if allocs[0].Weeks != 8 || allocs[1].Weeks != 2 {
		t.Fatalf("expected 8/2 split, got %d/%d", allocs[0].Weeks, allocs[1].Weeks)
	}
}

func TestAllocateWeeksInvariants(t *testing.T) {
	importances := [][]float64{
		{0.42, 0.42, 0.42, 0.36, 0.36, 0.36, 0.36},
		{0.9, 0.05, 0.05},
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{0, 0, 0},
		{1},
	}

	for _, imps := range importances {
		for total := 1; total <= 40; total++ {
			var gaps []SkillGap
			for _, imp := range imps {
				gaps = append(gaps, SkillGap{Name: "s", Importance: imp})
			}

			allocs, reserved := AllocateWeeks(gaps, total)
			sum := reserved
			for _, a := range allocs {
				if a.Weeks < 1 {
					t.Fatalf("total=%d importances=%v: allocation below one week", total, imps)
				}
				sum += a.Weeks
			}
			if sum != total {
				t.Fatalf("total=%d importances=%v: weeks sum to %d", total, imps, sum)
			}
		}
	}
}

func TestAllocateWeeksWithoutGaps(t *testing.T) {
	allocs, reserved := AllocateWeeks(nil, 8)
	if len(allocs) != 0 || reserved != 8 {
		t.Fatalf("expected all weeks reserved, got %d allocations and %d reserved", len(allocs), reserved)
	}
}

func TestBuildCurriculum(t *testing.T) {
	res := &recordingResolver{}
	p := NewPlanner(mustDefaultKB(t), res)
	path := CareerPath{Name: "Backend Developer", Category: "Web Development", Skills: []string{"Go", "SQL"}}

	allocs := []GapAllocation{
		{Gap: SkillGap{Name: "Go"}, Weeks: 3},
		{Gap: SkillGap{Name: "SQL"}, Weeks: 2},
	}

	data, err := p.BuildCurriculum(context.Background(), allocs, 8, 6, "build backend services", path)
	if err != nil {
		t.Fatalf("BuildCurriculum: %v", err)
	}

	if data.TotalWeeks != 8 || data.TotalHours != 48 {
		t.Fatalf("unexpected totals: %d weeks, %d hours", data.TotalWeeks, data.TotalHours)
	}
	if len(data.WeeklyPlans) != 6 {
		t.Fatalf("expected 5 skill weeks plus a capstone, got %d plans", len(data.WeeklyPlans))
	}

	covered := 0
	for i, w := range data.WeeklyPlans {
		if w.WeekNumber != i+1 {
			t.Fatalf("plan %d has week number %d", i, w.WeekNumber)
		}
		if len(w.Resources) != DefaultResourcesPerWeek {
			t.Fatalf("week %d has %d resources", w.WeekNumber, len(w.Resources))
		}
		if len(w.Projects) == 0 || len(w.Projects) > 3 {
			t.Fatalf("week %d has %d projects", w.WeekNumber, len(w.Projects))
		}
		covered += w.SpanWeeks
	}
	if covered != data.TotalWeeks {
		t.Fatalf("plans cover %d weeks, want %d", covered, data.TotalWeeks)
	}

	review := data.WeeklyPlans[2]
	if !review.IsReviewWeek || len(review.ReviewSkills) != 1 || review.ReviewSkills[0] != "Go" {
		t.Fatalf("third Go week should review Go, got %+v", review)
	}

	capstone := data.WeeklyPlans[5]
	if !capstone.IsCapstone || capstone.SpanWeeks != 3 || capstone.HoursAllocated != 18 {
		t.Fatalf("unexpected capstone: %+v", capstone)
	}

	if res.calls[0] != "Go|beginner" {
		t.Fatalf("first lookup should be a beginner search, got %q", res.calls[0])
	}
	if last := res.calls[len(res.calls)-1]; last != "Backend Developer|project" {
		t.Fatalf("capstone lookup = %q", last)
	}
}

func TestBuildCurriculumCancelled(t *testing.T) {
	p := NewPlanner(mustDefaultKB(t), &recordingResolver{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	allocs := []GapAllocation{{Gap: SkillGap{Name: "Go"}, Weeks: 2}}
	if _, err := p.BuildCurriculum(ctx, allocs, 8, 10, "", CareerPath{Name: "x"}); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		index, weeks int
		want         phase
	}{
		{0, 5, phaseIntroduction},
		{1, 5, phaseIntroduction},
		{2, 5, phaseIntermediate},
		{3, 5, phaseIntermediate},
		{4, 5, phaseAdvanced},
		{0, 1, phaseIntroduction},
		{0, 0, phaseIntroduction},
	}
	for _, tt := range tests {
		if got := phaseFor(tt.index, tt.weeks); got != tt.want {
			t.Fatalf("phaseFor(%d, %d) = %d, want %d", tt.index, tt.weeks, got, tt.want)
		}
	}
}

func TestGenerateLearningPathDataScientist(t *testing.T) {
	p := NewPlanner(mustDefaultKB(t), &recordingResolver{})

	result, err := p.GenerateLearningPath(context.Background(), Profile{
		Skills:       []string{"python"},
		Goals:        "I want to become a data scientist",
		HoursPerWeek: 10,
	})
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}

	if !result.Synthetic || result.CareerPath.Name != "Data Scientist" {
		t.Fatalf("unexpected path %q (synthetic=%v)", result.CareerPath.Name, result.Synthetic)
	}
	if result.NormalizedSkills[0] != "Python" {
		t.Fatalf("expected normalized Python, got %v", result.NormalizedSkills)
	}
	if result.Data.TotalWeeks != 16 {
		t.Fatalf("expected 16 weeks, got %d", result.Data.TotalWeeks)
	}

	checkPlanShape(t, result)

	plans := result.Data.WeeklyPlans
	if len(plans) != 13 {
		t.Fatalf("expected 12 skill weeks and a capstone, got %d plans", len(plans))
	}
	last := plans[len(plans)-1]
	if !last.IsCapstone || last.SpanWeeks != 4 {
		t.Fatalf("expected a 4 week capstone, got %+v", last)
	}
	if last.WeekNumber+last.SpanWeeks-1 != result.Data.TotalWeeks {
		t.Fatalf("capstone should end on the last week")
	}
}

func TestGenerateLearningPathSearchAlwaysFails(t *testing.T) {
	resolver := resource.NewResolver(failingSearcher{}, nil,
		resource.WithSleep(func(context.Context, time.Duration) {}),
		resource.WithRand(rand.New(rand.NewSource(7))),
	)
	p := NewPlanner(mustDefaultKB(t), resolver)

	result, err := p.GenerateLearningPath(context.Background(), Profile{
		Skills:       []string{"python"},
		Goals:        "I want to become a data scientist",
		HoursPerWeek: 10,
	})
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	checkPlanShape(t, result)

	sawCapstone := false
	for _, plan := range result.Data.WeeklyPlans {
		if plan.IsCapstone {
			sawCapstone = true
		}
		if len(plan.Resources) != 3 {
			t.Fatalf("week %d: expected 3 resources, got %d", plan.WeekNumber, len(plan.Resources))
		}
		for _, r := range plan.Resources {
			if r.Title == "" || !strings.HasPrefix(r.VideoID, "placeholder-") {
				t.Fatalf("week %d: expected a titled placeholder, got %+v", plan.WeekNumber, r)
			}
		}
	}
	if !sawCapstone {
		t.Fatal("expected a capstone week")
	}
}

func TestGenerateLearningPathEmptyProfile(t *testing.T) {
	p := NewPlanner(mustDefaultKB(t), nil)

	result, err := p.GenerateLearningPath(context.Background(), Profile{})
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	if result.CareerPath.Name != "Software Developer" {
		t.Fatalf("unexpected path %q", result.CareerPath.Name)
	}
	if result.Data.TotalWeeks < minTotalWeeks {
		t.Fatalf("plan shorter than minimum: %d", result.Data.TotalWeeks)
	}
	if result.Data.TotalHours != result.Data.TotalWeeks*DefaultHoursPerWeek {
		t.Fatalf("expected default hours per week to apply")
	}
}

func TestGenerateLearningPathNilKnowledgeBase(t *testing.T) {
	p := &Planner{}
	if _, err := p.GenerateLearningPath(context.Background(), Profile{}); err != ErrNilKnowledgeBase {
		t.Fatalf("expected ErrNilKnowledgeBase, got %v", err)
	}
}

func TestFormatPathContent(t *testing.T) {
	p := NewPlanner(mustDefaultKB(t), &recordingResolver{})
	result, err := p.GenerateLearningPath(context.Background(), Profile{
		Skills:       []string{"python"},
		Goals:        "I want to become a data scientist",
		HoursPerWeek: 10,
	})
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}

	content := FormatPathContent(result)
	for _, want := range []string{
		"# Learning Path: Data Scientist",
		"## Skills to develop",
		"### Week 1: Data Structures",
		"### Weeks 13-16: Data Scientist",
		"https://www.youtube.com/watch?v=",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q", want)
		}
	}

	if FormatPathContent(nil) != "" {
		t.Fatal("nil result should render empty")
	}
}
