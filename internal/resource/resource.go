package resource

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrSearchUnavailable = errors.New("video search is not configured")
	ErrEmptyResult       = errors.New("video search returned no results")
)

// VideoResource 学习视频
type VideoResource struct {
	Title       string `json:"title"`
	VideoID     string `json:"videoId"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
}

// SearchItem 外部检索接口返回的一条结果
type SearchItem struct {
	Title        string
	VideoID      string
	ChannelTitle string
	Description  string
}

// Searcher 外部视频检索
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchItem, error)
}

// Cache 按 (技能, 上下文) 缓存检索结果
type Cache interface {
	Get(ctx context.Context, key string) ([]VideoResource, bool)
	Set(ctx context.Context, key string, resources []VideoResource)
	Clear(ctx context.Context) error
}

// CacheKey lower(skill) + ":" + lower(context)
func CacheKey(skill, searchContext string) string {
	return strings.ToLower(skill) + ":" + strings.ToLower(searchContext)
}

// BuildQuery 根据上下文追加检索后缀
func BuildQuery(skill, searchContext string) string {
	var suffix string
	switch strings.ToLower(searchContext) {
	case "beginner":
		suffix = "beginner tutorial"
	case "advanced":
		suffix = "advanced techniques"
	case "project":
		suffix = "project tutorial"
	default:
		suffix = "tutorial " + searchContext
	}
	return strings.TrimSpace(skill + " " + suffix)
}
