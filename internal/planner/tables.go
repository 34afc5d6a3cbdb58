package planner

import "strings"

// careerTrack 合成职业路径时使用的职业方向
type careerTrack int

const (
	trackSoftware careerTrack = iota
	trackBlockchain
	trackMachineLearning
	trackFullStack
	trackBackend
	trackDataScience
	trackFrontend
	trackMobile
	trackDevOps
	trackSecurity
	trackGame
	trackCount
)

type trackInfo struct {
	name         string
	category     string
	fundamentals []string
}

var trackInfos = [trackCount]trackInfo{
	trackSoftware: {
		name:         "Software Developer",
		category:     "Software Development",
		fundamentals: []string{"Programming Fundamentals", "Git", "Data Structures", "Algorithms", "Object-Oriented Programming", "Testing"},
	},
	trackBlockchain: {
		name:         "Blockchain Developer",
		category:     "Blockchain",
		fundamentals: []string{"Blockchain Fundamentals", "Cryptography", "Solidity", "Smart Contracts", "JavaScript"},
	},
	trackMachineLearning: {
		name:         "Machine Learning Engineer",
		category:     "Artificial Intelligence",
		fundamentals: []string{"Python", "Linear Algebra", "Statistics", "Machine Learning", "Deep Learning"},
	},
	trackFullStack: {
		name:         "Full Stack Developer",
		category:     "Web Development",
		fundamentals: []string{"JavaScript", "React", "Node.js", "REST APIs", "SQL"},
	},
	trackBackend: {
		name:         "Backend Developer",
		category:     "Web Development",
		fundamentals: []string{"REST APIs", "SQL", "Authentication", "Docker", "Microservices"},
	},
	trackDataScience: {
		name:         "Data Scientist",
		category:     "Data Science",
		fundamentals: []string{"Python", "Statistics", "Machine Learning", "Data Analysis", "SQL", "Data Visualization"},
	},
	trackFrontend: {
		name:         "Frontend Developer",
		category:     "Web Development",
		fundamentals: []string{"HTML", "CSS", "JavaScript", "React", "Responsive Design"},
	},
	trackMobile: {
		name:         "Mobile Developer",
		category:     "Mobile Development",
		fundamentals: []string{"Kotlin", "Swift", "REST APIs", "Android Development"},
	},
	trackDevOps: {
		name:         "DevOps Engineer",
		category:     "Infrastructure",
		fundamentals: []string{"Linux", "Docker", "Kubernetes", "Continuous Integration", "Cloud Computing"},
	},
	trackSecurity: {
		name:         "Security Engineer",
		category:     "Cybersecurity",
		fundamentals: []string{"Networking", "Linux", "Security Fundamentals", "Cryptography"},
	},
	trackGame: {
		name:         "Game Developer",
		category:     "Game Development",
		fundamentals: []string{"C#", "Unity", "Object-Oriented Programming", "Linear Algebra"},
	},
}

// trackRule 目标关键词包含任一 marker 即命中该方向；按切片顺序决定优先级
type trackRule struct {
	track   careerTrack
	markers []string
}

var trackRules = []trackRule{
	{trackBlockchain, []string{"blockchain", "ethereum", "crypto", "web3", "solidity", "defi"}},
	{trackMachineLearning, []string{"machine", "neural", "intelligence", "deep"}},
	{trackFullStack, []string{"fullstack", "full"}},
	{trackBackend, []string{"backend", "server", "apis", "microservice", "database"}},
	{trackDataScience, []string{"data", "scientist", "analytics", "analyst", "statistic"}},
	{trackFrontend, []string{"frontend", "front", "react", "angular", "javascript", "website", "interface"}},
	{trackMobile, []string{"mobile", "android", "iphone", "kotlin", "swift"}},
	{trackDevOps, []string{"devops", "cloud", "kubernetes", "docker", "infrastructure", "deploy"}},
	{trackSecurity, []string{"security", "cyber", "hacking", "penetration"}},
	{trackGame, []string{"game", "gaming", "unity"}},
}

// matchTrack 根据目标关键词推断职业方向
func matchTrack(keywords []string) (careerTrack, bool) {
	for _, rule := range trackRules {
		for _, k := range keywords {
			for _, m := range rule.markers {
				if strings.Contains(k, m) {
					return rule.track, true
				}
			}
		}
	}
	return trackSoftware, false
}

// skillDomain 项目构思所属的技术领域
type skillDomain int

const (
	domainGeneral skillDomain = iota
	domainFrontend
	domainBackend
	domainBlockchain
	domainCount
)

var domainNames = [domainCount]string{
	domainGeneral:    "general",
	domainFrontend:   "frontend",
	domainBackend:    "backend",
	domainBlockchain: "blockchain",
}

func (d skillDomain) String() string {
	if d < 0 || d >= domainCount {
		return "unknown"
	}
	return domainNames[d]
}

// 分类顺序：区块链 → 前端 → 后端
var domainMarkers = []struct {
	domain  skillDomain
	markers []string
}{
	{domainBlockchain, []string{"blockchain", "solidity", "ethereum", "web3", "smart contract", "crypto"}},
	{domainFrontend, []string{"react", "vue", "angular", "css", "html", "frontend", "javascript", "typescript", "responsive"}},
	{domainBackend, []string{"node", "django", "spring", "api", "sql", "database", "backend", "server", "microservice", "docker", "authentication"}},
}

// classifyDomain 先看技能名，再看目标文本，均未命中时为 general
func classifyDomain(skill, goals string) skillDomain {
	for _, text := range []string{strings.ToLower(skill), strings.ToLower(goals)} {
		if text == "" {
			continue
		}
		for _, dm := range domainMarkers {
			for _, m := range dm.markers {
				if strings.Contains(text, m) {
					return dm.domain
				}
			}
		}
	}
	return domainGeneral
}

var projectThemes = [domainCount][]string{
	domainGeneral:    {"Command-line Tool", "Data Pipeline", "Automation Script", "Personal Knowledge Base"},
	domainFrontend:   {"Interactive Dashboard", "Portfolio Website", "E-commerce Storefront", "Real-time Chat Interface"},
	domainBackend:    {"REST API Service", "Background Job Worker", "URL Shortener", "Authentication Gateway"},
	domainBlockchain: {"Token Contract", "NFT Marketplace", "Decentralized Voting App", "Multi-signature Wallet"},
}

var complementarySkills = [domainCount]string{
	domainGeneral:    "Git",
	domainFrontend:   "Node.js",
	domainBackend:    "Docker",
	domainBlockchain: "React",
}

// 技能本身就是互补技能时的替代项
const fallbackComplementarySkill = "Testing"

// fillerKeywords 不适合作为项目主题的目标词
var fillerKeywords = map[string]struct{}{
	"want": {}, "become": {}, "would": {}, "like": {}, "learn": {}, "learning": {},
	"about": {}, "with": {}, "into": {}, "career": {}, "good": {},
	"better": {}, "skills": {}, "skill": {}, "more": {}, "some": {}, "that": {},
	"this": {}, "work": {}, "working": {}, "able": {}, "them": {},
	"from": {}, "have": {}, "need": {}, "improve": {}, "master": {}, "build": {},
}
