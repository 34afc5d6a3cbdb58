package planner

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/knowledge_base.yaml
var defaultKnowledgeBase []byte

var ErrEmptyKnowledgeBase = errors.New("knowledge base contains no skills")

// Skill 知识库中的技能条目
type Skill struct {
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	Tags          []string `yaml:"tags" json:"tags"`
	Difficulty    int      `yaml:"difficulty" json:"difficulty"`
	RelatedSkills []string `yaml:"related_skills" json:"relatedSkills"`
}

// CareerPath 职业路径：目标岗位及其有序技能列表
type CareerPath struct {
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category" json:"category"`
	Skills   []string `yaml:"skills" json:"skills"`
}

type knowledgeBaseFile struct {
	Version     int          `yaml:"version"`
	Skills      []Skill      `yaml:"skills"`
	CareerPaths []CareerPath `yaml:"career_paths"`
}

// KnowledgeBase 只读技能目录。加载后不再修改，可并发读取。
type KnowledgeBase struct {
	version     int
	skills      []Skill
	byName      map[string]int
	careerPaths []CareerPath
}

// DefaultKnowledgeBase 解析随程序打包的数据集
func DefaultKnowledgeBase() (*KnowledgeBase, error) {
	return ParseKnowledgeBase(defaultKnowledgeBase)
}

// LoadKnowledgeBase 从文件加载知识库，path 为空时使用内置数据集
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return DefaultKnowledgeBase()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}

	kb, err := ParseKnowledgeBase(data)
	if err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	return kb, nil
}

func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var file knowledgeBaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return NewKnowledgeBase(file.Version, file.Skills, file.CareerPaths)
}

// NewKnowledgeBase 构建知识库。技能名按小写去重，后出现的同名条目被忽略。
func NewKnowledgeBase(version int, skills []Skill, paths []CareerPath) (*KnowledgeBase, error) {
	if len(skills) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	kb := &KnowledgeBase{
		version: version,
		byName:  make(map[string]int, len(skills)),
	}

	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, errors.New("knowledge base contains a skill without a name")
		}
		key := strings.ToLower(name)
		if _, exists := kb.byName[key]; exists {
			continue
		}
		s.Name = name
		kb.byName[key] = len(kb.skills)
		kb.skills = append(kb.skills, s)
	}

	for _, p := range paths {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.New("knowledge base contains a career path without a name")
		}
		kb.careerPaths = append(kb.careerPaths, p)
	}

	return kb, nil
}

func (kb *KnowledgeBase) Version() int {
	return kb.version
}

// Skill 按名称（不区分大小写）查找技能
func (kb *KnowledgeBase) Skill(name string) (Skill, bool) {
	idx, ok := kb.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Skill{}, false
	}
	return kb.skills[idx], true
}

// Skills 按声明顺序返回全部技能的副本
func (kb *KnowledgeBase) Skills() []Skill {
	out := make([]Skill, len(kb.skills))
	copy(out, kb.skills)
	return out
}

// CareerPaths 按声明顺序返回全部职业路径的副本
func (kb *KnowledgeBase) CareerPaths() []CareerPath {
	out := make([]CareerPath, len(kb.careerPaths))
	copy(out, kb.careerPaths)
	return out
}

// RelatedSkills 返回技能声明的关联技能，未知技能返回 nil
func (kb *KnowledgeBase) RelatedSkills(name string) []string {
	s, ok := kb.Skill(name)
	if !ok {
		return nil
	}
	return s.RelatedSkills
}
