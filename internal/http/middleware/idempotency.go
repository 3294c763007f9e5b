// Idempotency-Key handling. The middleware only validates and flags; the
// handler that owns the operation stores and replays its own result.

package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's retry key. A client reuses the
// same value when it retries the same create.
const HeaderIdempotencyKey = "Idempotency-Key"

// Gin context keys for idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored replay exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// defaultKeyPattern is an RFC 7230 token subset.
var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the key validated by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether IdempotencyValidator found a completed operation
// for this caller, scope and key.
func IsReplay(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyIdemReplay).(bool)
	return b
}

// IdempotencyOptions configures header validation. Expiry is the lookup's
// business.
type IdempotencyOptions struct {
	MaxLen  int            // <= 0 means 200
	Pattern *regexp.Regexp // nil means ^[A-Za-z0-9._~\-:]+$
}

// IdempotencyLookup answers whether an unexpired result exists for
// (userID, scope, key) at now.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyScope binds a key to the method and matched route, e.g.
// "POST /api/claims".
func IdempotencyScope(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath()
}

// IdempotencyValidator checks the Idempotency-Key of unsafe requests and
// stashes it for the handler. A malformed key answers 400. When the caller
// already completed this scope with this key the request is flagged as a
// replay and exempted from rate limiting. Safe methods ignore the header.
// A failing lookup is logged and treated as a miss.
//
// It must run after RequireAuth so the caller is known.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortWithError(c, http.StatusBadRequest, "bad_request", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid := c.GetString(userIDKey)
		if lookup == nil || uid == "" {
			c.Next()
			return
		}
		exists, err := lookup(c.Request.Context(), uid, IdempotencyScope(c), key, time.Now().UTC())
		switch {
		case err != nil:
			LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
		case exists:
			c.Set(ctxKeyIdemReplay, true)
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
