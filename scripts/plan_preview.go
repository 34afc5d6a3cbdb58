// 手动预览学习路径脚本
//
// 不连接数据库与外部检索，视频资源使用占位数据。用于调整知识库后检查规划结果。
//
// 用法: go run scripts/plan_preview.go -kb path/to/knowledge_base.yaml -skills "python,sql" -goals "I want to become a data scientist"

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/resource"
)

func main() {
	kbPath := flag.String("kb", "", "知识库 YAML 路径，为空时使用内置知识库")
	skills := flag.String("skills", "", "逗号分隔的已掌握技能")
	goals := flag.String("goals", "", "学习目标")
	stage := flag.String("stage", "", "职业阶段")
	hours := flag.Int("hours", planner.DefaultHoursPerWeek, "每周学习小时数")
	asJSON := flag.Bool("json", false, "输出 JSON 而不是 Markdown")
	flag.Parse()

	kb, err := planner.LoadKnowledgeBase(*kbPath)
	if err != nil {
		log.Fatalf("知识库加载失败: %v", err)
	}

	var skillList []string
	for _, s := range strings.Split(*skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skillList = append(skillList, s)
		}
	}

	// 无检索器时直接生成占位资源
	resolver := resource.NewResolver(nil, resource.NewMemoryCache())
	p := planner.NewPlanner(kb, resolver)

	result, err := p.GenerateLearningPath(context.Background(), planner.Profile{
		Skills:       skillList,
		Goals:        *goals,
		CareerStage:  *stage,
		HoursPerWeek: *hours,
	})
	if err != nil {
		log.Fatalf("规划失败: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("输出失败: %v", err)
		}
		return
	}

	fmt.Print(planner.FormatPathContent(result))
}
