package resource

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = 1 * time.Second
	fallbackResourceCount = 3
)

var fallbackChannels = []string{
	"freeCodeCamp.org",
	"Traversy Media",
	"The Net Ninja",
	"Programming with Mosh",
	"Fireship",
	"Tech With Tim",
}

// Resolver 为 (技能, 上下文) 解析学习视频：先查缓存，未命中时带退避重试外部检索，
// 重试耗尽则合成占位资源。两种结果都会写入缓存，调用方取消时除外。
type Resolver struct {
	Searcher Searcher
	Cache    Cache

	maxAttempts    int
	initialBackoff time.Duration
	sleep          func(ctx context.Context, d time.Duration)

	randMu sync.Mutex
	rand   *rand.Rand

	group singleflight.Group
}

type Option func(*Resolver)

func WithMaxAttempts(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithInitialBackoff(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.initialBackoff = d
		}
	}
}

// WithSleep 测试中替换退避等待
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// WithRand 注入随机源，使占位资源的频道可复现
func WithRand(src *rand.Rand) Option {
	return func(r *Resolver) {
		if src != nil {
			r.rand = src
		}
	}
}

func NewResolver(searcher Searcher, cache Cache, opts ...Option) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	r := &Resolver{
		Searcher:       searcher,
		Cache:          cache,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
		sleep:          sleepContext,
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 永不返回错误；外部检索失败时退化为占位资源。
// 调用方取消时直接返回占位资源，不写缓存；共享检索不受单个调用方取消的影响。
func (r *Resolver) Resolve(ctx context.Context, skill, searchContext string, n int) []VideoResource {
	key := CacheKey(skill, searchContext)

	if cached, ok := r.Cache.Get(ctx, key); ok {
		monitoring.ResourceLookups.WithLabelValues("hit").Inc()
		return cached
	}

	if ctx.Err() != nil {
		return r.abandoned(ctx, skill, searchContext)
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)

		if cached, ok := r.Cache.Get(fetchCtx, key); ok {
			monitoring.ResourceLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}

		resources, err := r.fetch(fetchCtx, skill, searchContext, n)
		if err != nil {
			logger.Log.Warn("Video search exhausted, using placeholder resources",
				zap.String("skill", skill),
				zap.String("context", searchContext),
				zap.Error(err),
			)
			resources = r.synthesize(skill, searchContext)
			monitoring.ResourceLookups.WithLabelValues("synthesized").Inc()
		} else {
			monitoring.ResourceLookups.WithLabelValues("fetched").Inc()
		}

		r.Cache.Set(fetchCtx, key, resources)
		return resources, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]VideoResource)
	case <-ctx.Done():
		return r.abandoned(ctx, skill, searchContext)
	}
}

// abandoned 调用方已放弃等待，占位资源只返回给当前调用方
func (r *Resolver) abandoned(ctx context.Context, skill, searchContext string) []VideoResource {
	logger.Log.Debug("Video lookup cancelled by caller",
		zap.String("skill", skill),
		zap.String("context", searchContext),
		zap.Error(ctx.Err()),
	)
	monitoring.ResourceLookups.WithLabelValues("cancelled").Inc()
	return r.synthesize(skill, searchContext)
}

// Clear 清空缓存，之后的请求会重新检索
func (r *Resolver) Clear(ctx context.Context) error {
	return r.Cache.Clear(ctx)
}

func (r *Resolver) fetch(ctx context.Context, skill, searchContext string, n int) ([]VideoResource, error) {
	if r.Searcher == nil {
		return nil, ErrSearchUnavailable
	}
	if n <= 0 {
		n = fallbackResourceCount
	}

	query := BuildQuery(skill, searchContext)
	backoff := r.initialBackoff
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		items, err := r.Searcher.Search(ctx, query, n)
		if err == nil && len(items) == 0 {
			err = ErrEmptyResult
		}
		if err == nil {
			return toResources(items), nil
		}

		lastErr = err
		if errors.Is(err, ErrSearchUnavailable) {
			break
		}
		logger.Log.Debug("Video search attempt failed",
			zap.String("query", query),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < r.maxAttempts {
			r.sleep(ctx, backoff)
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("search %q: %w", query, lastErr)
}

func toResources(items []SearchItem) []VideoResource {
	out := make([]VideoResource, 0, len(items))
	for _, it := range items {
		out = append(out, VideoResource{
			Title:       it.Title,
			VideoID:     it.VideoID,
			Channel:     it.ChannelTitle,
			Description: it.Description,
		})
	}
	return out
}

func (r *Resolver) synthesize(skill, searchContext string) []VideoResource {
	skillSlug := slug(skill)
	ctxSlug := slug(searchContext)
	if ctxSlug == "" {
		ctxSlug = "general"
	}

	titles := []string{
		"%s Complete Tutorial",
		"%s Explained Step by Step",
		"Hands-on %s Practice Session",
	}

	r.randMu.Lock()
	defer r.randMu.Unlock()

	out := make([]VideoResource, 0, fallbackResourceCount)
	for i := 0; i < fallbackResourceCount; i++ {
		out = append(out, VideoResource{
			Title:       fmt.Sprintf(titles[i%len(titles)], skill),
			VideoID:     fmt.Sprintf("placeholder-%s-%s-%d", skillSlug, ctxSlug, i+1),
			Channel:     fallbackChannels[r.rand.Intn(len(fallbackChannels))],
			Description: fmt.Sprintf("A %s level walkthrough of %s concepts with practical examples.", searchContext, skill),
		})
	}
	return out
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
