package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/admin"
	"github.com/playmatatu/tablegeom/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/p", AdminAuth("secret"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminContextKey))
	})
	return r
}

func TestAdminAuthAcceptsBearerAndQueryToken(t *testing.T) {
	tok, _, err := admin.IssueToken("secret", "designer", nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "designer" {
		t.Errorf("bearer: code=%d body=%q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p?token="+tok, nil))
	if w.Code != http.StatusOK {
		t.Errorf("query token: code=%d", w.Code)
	}
}

func TestAdminAuthRejectsMissingAndBadTokens(t *testing.T) {
	r := protectedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: code=%d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: code=%d", w.Code)
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	cfg := &config.Config{Environment: "production", FrontendURL: "https://editor.example.com"}
	r := gin.New()
	r.GET("/ws", WebSocketOriginCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		origin string
		want   int
	}{
		{"https://editor.example.com", http.StatusOK},
		{"https://evil.example.com", http.StatusForbidden},
		{"", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Upgrade", "websocket")
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("origin %q: code=%d want %d", tc.origin, w.Code, tc.want)
		}
	}

	// Plain requests pass through untouched.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusOK {
		t.Errorf("non-upgrade request: code=%d", w.Code)
	}
}

func TestDevelopmentOrigins(t *testing.T) {
	got := allowedOrigins(&config.Config{Environment: "development"})
	if len(got) != 2 {
		t.Errorf("dev origins=%v", got)
	}
	if got := allowedOrigins(&config.Config{Environment: "production"}); len(got) != 0 {
		t.Errorf("production without frontend url should allow nothing, got %v", got)
	}
}
