package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillpath_backend/internal/config"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/planner"
	"skillpath_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	kb, err := planner.DefaultKnowledgeBase()
	if err != nil {
		t.Fatalf("knowledge base: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "integration-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Resources: config.ResourceConfig{Cache: "memory", MaxAttempts: 1},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
		Planner:   config.PlannerConfig{ResourcesPerWeek: 2, TimeoutSeconds: 30},
	}

	return newApp(cfg, db, nil, kb)
}

func doJSON(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func registerAndLogin(t *testing.T, a *App, name string) string {
	t.Helper()
	email := name + "@example.com"

	w, _ := doJSON(t, a, http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}

	w, resp := doJSON(t, a, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("login response without token: %s", w.Body.String())
	}
	return login.Token
}

func TestHealthAndKnowledge(t *testing.T) {
	a := newTestApp(t)

	w, _ := doJSON(t, a, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}

	w, resp := doJSON(t, a, http.MethodGet, "/api/knowledge/career-paths", "", nil)
	if w.Code != http.StatusOK || len(resp.Data) == 0 {
		t.Fatalf("career paths: status %d body %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/api/profile", "/api/learning-paths/active", "/api/achievements"} {
		w, _ := doJSON(t, a, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, w.Code)
		}
	}

	w, _ := doJSON(t, a, http.MethodGet, "/api/profile", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", w.Code)
	}
}

func TestAdminRouteRequiresAdminRole(t *testing.T) {
	a := newTestApp(t)
	token := registerAndLogin(t, a, "student")

	w, _ := doJSON(t, a, http.MethodPost, "/api/admin/resources/cache/clear", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a student, got %d", w.Code)
	}

	if err := a.DB.Model(&model.User{}).Where("email = ?", "student@example.com").Update("role", model.Admin).Error; err != nil {
		t.Fatalf("promote user: %v", err)
	}
	// 角色写在令牌里，重新登录
	token = login(t, a, "student@example.com")

	w, _ = doJSON(t, a, http.MethodPost, "/api/admin/resources/cache/clear", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an admin, got %d body %s", w.Code, w.Body.String())
	}
}

func login(t *testing.T, a *App, email string) string {
	t.Helper()
	w, resp := doJSON(t, a, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d", w.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	json.Unmarshal(resp.Data, &login)
	return login.Token
}

func TestLearningFlow(t *testing.T) {
	a := newTestApp(t)
	token := registerAndLogin(t, a, "ada")

	w, _ := doJSON(t, a, http.MethodPost, "/api/learning-paths", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("generate without profile: expected 404, got %d", w.Code)
	}

	w, _ = doJSON(t, a, http.MethodPut, "/api/learning-profile", token, map[string]interface{}{
		"skills":       []string{"python"},
		"goals":        "I want to become a data scientist",
		"hoursPerWeek": 10,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert profile: status %d body %s", w.Code, w.Body.String())
	}

	w, resp := doJSON(t, a, http.MethodPost, "/api/learning-paths", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate: status %d body %s", w.Code, w.Body.String())
	}
	var path struct {
		ID          string `json:"id"`
		CareerPath  string `json:"careerPath"`
		TotalWeeks  int    `json:"totalWeeks"`
		WeeklyPlans []struct {
			WeekNumber int `json:"weekNumber"`
			Resources  []struct {
				VideoID string `json:"videoId"`
			} `json:"resources"`
		} `json:"weeklyPlans"`
	}
	if err := json.Unmarshal(resp.Data, &path); err != nil {
		t.Fatalf("decode path: %v", err)
	}
	if path.CareerPath != "Data Scientist" || path.TotalWeeks != 16 {
		t.Fatalf("unexpected path %+v", path)
	}
	// 未配置检索密钥，全部为占位资源
	first := path.WeeklyPlans[0].Resources
	if len(first) == 0 || !strings.HasPrefix(first[0].VideoID, "placeholder-") {
		t.Fatalf("expected placeholder resources, got %+v", first)
	}

	w, resp = doJSON(t, a, http.MethodGet, "/api/learning-paths/active/current-week", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current week: status %d", w.Code)
	}
	var current struct {
		WeekNumber int  `json:"weekNumber"`
		Finished   bool `json:"finished"`
	}
	json.Unmarshal(resp.Data, &current)
	if current.WeekNumber != 1 || current.Finished {
		t.Fatalf("unexpected current week %+v", current)
	}

	w, resp = doJSON(t, a, http.MethodPost, "/api/daily-goals/recommended", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommended goals: status %d body %s", w.Code, w.Body.String())
	}
	var goals []struct {
		ID       uint `json:"id"`
		XPReward int  `json:"xpReward"`
	}
	if err := json.Unmarshal(resp.Data, &goals); err != nil || len(goals) == 0 {
		t.Fatalf("decode goals: %v (%s)", err, w.Body.String())
	}

	w, _ = doJSON(t, a, http.MethodPatch, fmt.Sprintf("/api/daily-goals/%d/complete", goals[0].ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete goal: status %d body %s", w.Code, w.Body.String())
	}

	w, resp = doJSON(t, a, http.MethodGet, "/api/achievements", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("achievements: status %d", w.Code)
	}
	var achievements struct {
		TotalXP int `json:"totalXp"`
		Badges  []struct {
			Name string `json:"name"`
		} `json:"badges"`
	}
	json.Unmarshal(resp.Data, &achievements)
	if achievements.TotalXP != 50+goals[0].XPReward {
		t.Fatalf("unexpected xp %d", achievements.TotalXP)
	}
	if len(achievements.Badges) != 1 || achievements.Badges[0].Name != "Path Planner" {
		t.Fatalf("unexpected badges %+v", achievements.Badges)
	}

	w, _ = doJSON(t, a, http.MethodPost, "/api/learning-paths/"+path.ID+"/export", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d body %s", w.Code, w.Body.String())
	}
}

func TestDailyGoalsRejectBadDate(t *testing.T) {
	a := newTestApp(t)
	token := registerAndLogin(t, a, "ada")

	w, _ := doJSON(t, a, http.MethodGet, "/api/daily-goals?date=15-01-2025", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
