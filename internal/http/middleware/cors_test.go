package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, handler gin.HandlerFunc, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler)
	r.OPTIONS("/api/auth/login", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLocalDevOrigins(t *testing.T) {
	origins := []string{
		"http://localhost:5173",
		"http://127.0.0.1:3000",
	}
	for _, origin := range origins {
		t.Run(origin, func(t *testing.T) {
			rec := preflight(t, CORS(), origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}

func TestCORSAddsConfiguredOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://review.mediaflowhq.com, https://staging.mediaflowhq.com")

	rec := preflight(t, CORS(), "https://review.mediaflowhq.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://review.mediaflowhq.com" {
		t.Fatalf("configured origin not allowed: got=%q", got)
	}
}
