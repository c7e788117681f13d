package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth("dev"))
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c)})
	})
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestAuthRejectsMissingIdentity(t *testing.T) {
	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status %d", w.Code)
	}
}

func TestAuthAcceptsGuestHeader(t *testing.T) {
	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("X-Guest-Id", "abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"userId":"guest:abc123"}` {
		t.Errorf("body %s", body)
	}
}

func TestAuthAcceptsValidJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.SignJWT(auth.Claims{Sub: "google:42", Email: "x@y.z"})
	if err != nil {
		t.Fatal(err)
	}

	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"userId":"google:42"}` {
		t.Errorf("body %s", body)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status %d", w.Code)
	}
}

func TestAuthSkipsHealth(t *testing.T) {
	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status %d", w.Code)
	}
}
