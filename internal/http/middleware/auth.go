// Bearer authentication and per-route authorization.
//
// RequireAuth resolves the Authorization header into a domain.Identity and
// stores it in the Gin context. Authorize then checks the identity against
// domain.Policy for one operation. Both answer with the standard error
// envelope.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claims-backend/internal/domain"
)

const (
	// userIDKey holds the caller id as a decimal string. The rate limiter and
	// the idempotency validator key on it.
	userIDKey   = "userID"
	identityKey = "identity"
)

// Authorizer turns a bearer token into the caller's identity.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (domain.Identity, error)
}

// RequireAuth rejects requests without a valid access token with 401 and
// `WWW-Authenticate: Bearer`.
func RequireAuth(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}
		id, err := a.Authorize(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(identityKey, id)
		c.Set(userIDKey, strconv.FormatUint(uint64(id.UserID), 10))

		lg := LoggerFrom(c).With().Uint("user_id", id.UserID).Logger()
		c.Set(loggerKey, &lg)
		c.Request = c.Request.WithContext(lg.WithContext(c.Request.Context()))
		c.Next()
	}
}

// Authorize allows the request only when the caller may perform op.
// Must run after RequireAuth.
func Authorize(op domain.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			unauthorized(c, "unauthorized")
			return
		}
		if !id.Allowed(op) {
			abortWithError(c, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="claims"`)
	abortWithError(c, http.StatusUnauthorized, "unauthorized", msg)
}
