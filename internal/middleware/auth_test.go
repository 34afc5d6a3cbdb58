package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"skillpath_backend/internal/config"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}}
}

func tokenFor(t *testing.T, role model.UserRole, secret string, ttl time.Duration) string {
	t.Helper()
	user := &model.User{Email: "ada@example.com", Role: role}
	user.ID = 7
	token, err := util.GenerateJWT(user, secret, ttl)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func serve(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", AuthMiddleware(testConfig), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil || claims.UserID != 7 {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid", tokenFor(t, model.Student, testSecret, time.Hour), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", tokenFor(t, model.Student, "other", time.Hour), http.StatusUnauthorized},
		{"expired", tokenFor(t, model.Student, testSecret, -time.Minute), http.StatusUnauthorized},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serve(r, tt.token); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", AuthMiddleware(testConfig), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if got := serve(r, tokenFor(t, model.Student, testSecret, time.Hour)); got != http.StatusForbidden {
		t.Fatalf("student: status %d, want 403", got)
	}
	if got := serve(r, tokenFor(t, model.Admin, testSecret, time.Hour)); got != http.StatusOK {
		t.Fatalf("admin: status %d, want 200", got)
	}
}

type recordingActivity struct {
	mu  sync.Mutex
	ids []uint
	wg  sync.WaitGroup
}

func (r *recordingActivity) UpdateLastSeen(userID uint) error {
	r.mu.Lock()
	r.ids = append(r.ids, userID)
	r.mu.Unlock()
	r.wg.Done()
	return nil
}

func TestActivityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &recordingActivity{}
	repo.wg.Add(1)

	r := gin.New()
	r.GET("/secure", AuthMiddleware(testConfig), ActivityMiddleware(repo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if got := serve(r, tokenFor(t, model.Student, testSecret, time.Hour)); got != http.StatusOK {
		t.Fatalf("status %d", got)
	}
	repo.wg.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.ids) != 1 || repo.ids[0] != 7 {
		t.Fatalf("unexpected activity updates %v", repo.ids)
	}
}
