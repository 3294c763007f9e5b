package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func redactRouter(t *testing.T) (*gin.Engine, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{" X-Api-Key ", ""}}))
	return r, buf
}

func TestRedactingLogger_ScrubsQueryAndHeaders(t *testing.T) {
	r, buf := redactRouter(t)
	r.GET("/api/claims/:claim_id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&id=123e4567-e89b-12d3-a456-426614174000&vin=WVWZZZ1JZXW000001"
	req := httptest.NewRequest(http.MethodGet, "/api/claims/CLM-1?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Note", "owner a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"path":"/api/claims/:claim_id"`,
		`"request_id":"rid-1"`,
		`[REDACTED:email]`,
		`[REDACTED:phone]`,
		`[REDACTED:id]`,
		`vin=[REDACTED:vin]`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Note":"owner [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("missing %s in:\n%s", want, logs)
		}
	}
	for _, leak := range []string{"topsecret", "shhh", "example.com", "WVWZZZ1JZXW000001"} {
		if strings.Contains(logs, leak) {
			t.Fatalf("leaked %q:\n%s", leak, logs)
		}
	}
}

func TestRedactingLogger_LevelsAndUserID(t *testing.T) {
	r, buf := redactRouter(t)
	r.GET("/missing-claim", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/me", func(c *gin.Context) {
		c.Set(userIDKey, "42")
		c.Status(http.StatusOK)
	})

	for _, p := range []string{"/missing-claim", "/broken", "/me"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 access lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"warn"`) {
		t.Fatalf("404 line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) {
		t.Fatalf("500 line: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"info"`) || !strings.Contains(lines[2], `"user_id":"42"`) {
		t.Fatalf("authenticated line: %s", lines[2])
	}
}

func TestRedactingLogger_AttachesRequestLogger(t *testing.T) {
	r, buf := redactRouter(t)
	r.POST("/api/claims", func(c *gin.Context) {
		log.Ctx(c.Request.Context()).Info().Msg("from service")
		LoggerFrom(c).Info().Msg("from handler")
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/claims", nil)
	req.Header.Set(requestIDHeader, "rid-ctx")
	r.ServeHTTP(httptest.NewRecorder(), req)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "from ") && !strings.Contains(line, `"request_id":"rid-ctx"`) {
			t.Fatalf("scoped log missing request_id: %s", line)
		}
	}
	if !strings.Contains(buf.String(), "from service") || !strings.Contains(buf.String(), "from handler") {
		t.Fatalf("scoped logs missing: %s", buf.String())
	}
}

func TestScrub(t *testing.T) {
	if scrub("") != "" {
		t.Fatal("empty input changed")
	}
	if got := scrub("status=open&sort=desc"); got != "status=open&sort=desc" {
		t.Fatalf("plain query scrubbed: %q", got)
	}
}
