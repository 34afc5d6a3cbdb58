package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillpath_backend/internal/config"
)

const searchResponse = `{
  "items": [
    {"id": {"videoId": "v1"}, "snippet": {"title": "Go Basics", "channelTitle": "Go Channel", "description": "intro"}},
    {"id": {"channelId": "c1"}, "snippet": {"title": "A channel, not a video"}},
    {"id": {"videoId": "v2"}, "snippet": {"title": "Go Concurrency", "channelTitle": "Go Channel"}}
  ]
}`

func TestYouTubeSearcherSearch(t *testing.T) {
	var gotQuery, gotKey, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	s := NewYouTubeSearcher(config.ResourceConfig{BaseURL: srv.URL, APIKey: "secret"})
	items, err := s.Search(context.Background(), "Go beginner tutorial", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != "Go beginner tutorial" || gotKey != "secret" || gotMax != "3" {
		t.Fatalf("unexpected request q=%q key=%q max=%q", gotQuery, gotKey, gotMax)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 video items, got %d", len(items))
	}
	if items[0].VideoID != "v1" || items[0].ChannelTitle != "Go Channel" || items[0].Description != "intro" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
}

func TestYouTubeSearcherWithoutKey(t *testing.T) {
	s := NewYouTubeSearcher(config.ResourceConfig{BaseURL: "http://127.0.0.1:1"})
	if _, err := s.Search(context.Background(), "Go", 3); !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}

	s.SetAPIKey("rotated")
	if s.key() != "rotated" {
		t.Fatal("SetAPIKey did not take effect")
	}
}

func TestYouTubeSearcherErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"quota exceeded", http.StatusForbidden, `{"error": {"code": 403, "message": "quotaExceeded"}}`},
		{"error payload with 200", http.StatusOK, `{"error": {"code": 400, "message": "bad request"}}`},
		{"malformed json", http.StatusOK, `{"items": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewYouTubeSearcher(config.ResourceConfig{BaseURL: srv.URL, APIKey: "k"})
			if _, err := s.Search(context.Background(), "Go", 3); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestResolverWithYouTubeFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewYouTubeSearcher(config.ResourceConfig{BaseURL: srv.URL, APIKey: "k"})
	r := NewResolver(s, nil, WithSleep(noSleep))

	got := r.Resolve(context.Background(), "Go", "beginner", 3)
	if len(got) != fallbackResourceCount || got[0].VideoID != "placeholder-go-beginner-1" {
		t.Fatalf("unexpected fallback %+v", got)
	}
}
