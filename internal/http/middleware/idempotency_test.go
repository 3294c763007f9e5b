package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type lookupCall struct {
	uid, scope, key string
	now             time.Time
}

// idemRouter mounts the validator behind a fake RequireAuth that trusts the
// X-Test-User header, and records what the handler saw.
func idemRouter(opts IdempotencyOptions, lookup IdempotencyLookup) (*gin.Engine, *[]string) {
	gin.SetMode(gin.TestMode)
	seen := &[]string{}
	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		if u := c.GetHeader("X-Test-User"); u != "" {
			c.Set(userIDKey, u)
		}
		c.Next()
	}, IdempotencyValidator(opts, lookup))
	h := func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		*seen = append(*seen, key)
		if IsReplay(c) {
			*seen = append(*seen, "replay")
		}
		if IsRateBypass(c) {
			*seen = append(*seen, "bypass")
		}
		c.Status(http.StatusCreated)
	}
	r.POST("/api/claims", h)
	r.GET("/api/claims", h)
	return r, seen
}

func sendIdem(r *gin.Engine, method, user, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/claims", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyContextHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/claims", nil)

	if k, ok := GetIdempotencyKey(c); ok || k != "" {
		t.Fatalf("key without validator = %q", k)
	}
	c.Set(ctxKeyIdemKey, 123)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatal("non-string key reported present")
	}
	c.Set(ctxKeyIdemReplay, "yes")
	if IsReplay(c) {
		t.Fatal("non-bool replay flag honoured")
	}
	c.Set(ctxKeyIdemReplay, true)
	if !IsReplay(c) {
		t.Fatal("replay flag ignored")
	}
}

func TestIdempotencyValidator_Rejects(t *testing.T) {
	cases := []struct {
		name string
		opts IdempotencyOptions
		key  string
	}{
		{"too long for custom cap", IdempotencyOptions{MaxLen: 5}, "abcdef"},
		{"too long for default cap", IdempotencyOptions{}, strings.Repeat("k", 201)},
		{"custom pattern", IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, "abc123"},
		{"default pattern", IdempotencyOptions{}, "has space"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, seen := idemRouter(tc.opts, nil)
			w := sendIdem(r, http.MethodPost, "1", tc.key)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != "bad_request" || body["request_id"] == "" {
				t.Fatalf("body = %v", body)
			}
			if len(*seen) != 0 {
				t.Fatal("handler ran")
			}
		})
	}
}

func TestIdempotencyValidator_PassThrough(t *testing.T) {
	calls := 0
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		calls++
		return true, nil
	}
	r, seen := idemRouter(IdempotencyOptions{}, lookup)

	// No header.
	sendIdem(r, http.MethodPost, "1", "")
	// Safe method: even a malformed key is ignored.
	if w := sendIdem(r, http.MethodGet, "1", "not valid!"); w.Code != http.StatusCreated {
		t.Fatalf("GET with key = %d", w.Code)
	}
	// Anonymous caller: key stashed, no lookup.
	sendIdem(r, http.MethodPost, "", "claim-1")

	if calls != 0 {
		t.Fatalf("lookup called %d times", calls)
	}
	if got := strings.Join(*seen, ","); got != ",,claim-1" {
		t.Fatalf("handler saw %q", got)
	}
}

func TestIdempotencyValidator_Lookup(t *testing.T) {
	var calls []lookupCall
	lookup := func(_ context.Context, uid, scope, key string, now time.Time) (bool, error) {
		calls = append(calls, lookupCall{uid, scope, key, now})
		switch key {
		case "done":
			return true, nil
		case "flaky":
			return true, errors.New("db timeout")
		}
		return false, nil
	}
	r, seen := idemRouter(IdempotencyOptions{}, lookup)

	sendIdem(r, http.MethodPost, "7", "fresh")
	sendIdem(r, http.MethodPost, "7", "done")
	sendIdem(r, http.MethodPost, "7", "flaky")

	if len(calls) != 3 {
		t.Fatalf("lookup calls = %d", len(calls))
	}
	for _, c := range calls {
		if c.uid != "7" || c.scope != "POST /api/claims" || c.now.IsZero() || c.now.Location() != time.UTC {
			t.Fatalf("lookup args = %+v", c)
		}
	}
	// A lookup error counts as a miss even if it claims a hit.
	if got := strings.Join(*seen, ","); got != "fresh,done,replay,bypass,flaky" {
		t.Fatalf("handler saw %q", got)
	}
}
