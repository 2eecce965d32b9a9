package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	r.GET("/teach", AuthMiddleware(cfg), RoleMiddleware("teacher"), func(c *gin.Context) {
		util.Success(c, nil)
	})
	return r
}

func request(t *testing.T, r *gin.Engine, path, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret"}}
	r := newRouter(cfg)
	tok, err := util.GenerateJWT(5, "student", "", "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if code := request(t, r, "/me", ""); code != http.StatusUnauthorized {
		t.Fatalf("missing header: %d", code)
	}
	if code := request(t, r, "/me", "Bearer garbage"); code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d", code)
	}
	if code := request(t, r, "/me", "Bearer "+tok); code != http.StatusOK {
		t.Fatalf("valid token: %d", code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret"}}
	r := newRouter(cfg)

	cases := []struct {
		role string
		want int
	}{
		{"student", http.StatusForbidden},
		{"teacher", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, c := range cases {
		tok, _ := util.GenerateJWT(5, c.role, "", "s3cret", time.Hour)
		if code := request(t, r, "/teach", "Bearer "+tok); code != c.want {
			t.Errorf("role %s: status %d, want %d", c.role, code, c.want)
		}
	}
}
