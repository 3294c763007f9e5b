// Package middleware holds the Gin middleware of the claims API: request
// correlation, access logging, panic recovery, authentication, permission
// checks, idempotency key validation, rate limiting, metrics and security
// headers.
//
// Order: RequestID, Logger (or RedactingLogger), Recovery, then the rest.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the logged raw query string, in bytes.
	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID or mints a UUIDv4, echoes it on
// the response and stores it in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes one structured access line per request.
//
// A request-scoped logger carrying request_id, method and route is stored
// under the "logger" key and in the request context, so services can use
// log.Ctx(ctx). The caller id is only known once RequireAuth has run, so
// user_id is added to the access line after the chain returns.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l, path := attachScoped(c)

		c.Next()

		ev := accessEvent(c, l)
		if ev == nil {
			return
		}
		ev.Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", c.Writer.Status()).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// attachScoped builds the request-scoped logger and installs it in both
// contexts. The returned path is the route template, or the raw path when no
// route matched.
func attachScoped(c *gin.Context) (*zerolog.Logger, string) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	rid, _ := c.Get(requestIDKey)
	l := log.With().
		Str("request_id", asString(rid)).
		Str("method", c.Request.Method).
		Str("route", path).
		Logger()
	c.Set(loggerKey, &l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
	return &l, path
}

// accessEvent picks the level from the outcome and stamps user_id when the
// request was authenticated. Gin errors force the error level.
func accessEvent(c *gin.Context, l *zerolog.Logger) *zerolog.Event {
	status := c.Writer.Status()
	var ev *zerolog.Event
	switch {
	case len(c.Errors) > 0:
		ev = l.Error().Str("errors", c.Errors.String())
	case status >= http.StatusInternalServerError:
		ev = l.Error()
	case status >= http.StatusBadRequest:
		ev = l.Warn()
	default:
		ev = l.Info()
	}
	if uid, ok := c.Get(userIDKey); ok && ev != nil {
		ev = ev.Str("user_id", asString(uid))
	}
	return ev
}

// Recovery turns a panic into the JSON 500 envelope, unless the handler had
// already started writing, in which case only the status is aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := asString(c.Value(requestIDKey))
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			abortWithError(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or a plain child of the
// global logger when none was attached.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate cuts s to max bytes plus an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
