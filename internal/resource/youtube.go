package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"skillpath_backend/internal/config"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeSearcher 调用 YouTube Data API v3 的 search 接口
type YouTubeSearcher struct {
	baseURL string
	client  *http.Client

	mu     sync.RWMutex
	apiKey string
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewYouTubeSearcher(cfg config.ResourceConfig) *YouTubeSearcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YouTubeSearcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
	}
}

// SetAPIKey 配置热更新时轮换密钥
func (s *YouTubeSearcher) SetAPIKey(key string) {
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
}

func (s *YouTubeSearcher) key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchItem, error) {
	apiKey := s.key()
	if apiKey == "" {
		return nil, ErrSearchUnavailable
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed youtubeSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode video search response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("video search error (code %d): %s", parsed.Error.Code, parsed.Error.Message)
	}

	items := make([]SearchItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it.ID.VideoID == "" {
			continue
		}
		items = append(items, SearchItem{
			Title:        it.Snippet.Title,
			VideoID:      it.ID.VideoID,
			ChannelTitle: it.Snippet.ChannelTitle,
			Description:  it.Snippet.Description,
		})
	}
	return items, nil
}
