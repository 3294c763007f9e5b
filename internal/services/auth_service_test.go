package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/claims-backend/internal/domain"
)

const testSecret = "test-secret-0123456789"

func newAuthSvc(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	users := newUserSvc(t)
	return NewAuthService(users, []byte(testSecret), "claims-test", time.Minute, time.Hour), users
}

func decodeUnverified(t *testing.T, tok string) *TokenClaims {
	t.Helper()
	tc := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, tc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return tc
}

func TestAuthService_LoginIssuesTypedPair(t *testing.T) {
	auth, users := newAuthSvc(t)
	ctx := context.Background()
	u, err := users.Register(ctx, Registration{Username: "jane", Password: "password1", Role: domain.RoleViewer})
	if err != nil {
		t.Fatal(err)
	}

	pair, err := auth.Login(ctx, "Jane", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.TokenType != "bearer" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.User == nil || pair.User.UserID != u.ID || pair.User.Role != domain.RoleViewer {
		t.Fatalf("unexpected profile %+v", pair.User)
	}

	at, rt := decodeUnverified(t, pair.AccessToken), decodeUnverified(t, pair.RefreshToken)
	if at.Type != TokenAccess || rt.Type != TokenRefresh {
		t.Fatalf("type tags: access=%q refresh=%q", at.Type, rt.Type)
	}
	if at.Subject != strconv.FormatUint(uint64(u.ID), 10) {
		t.Fatalf("subject = %q, want %d", at.Subject, u.ID)
	}
	if at.ID == rt.ID {
		t.Fatal("tokens share a jti")
	}
	if !rt.ExpiresAt.After(at.ExpiresAt.Time) {
		t.Fatal("refresh token should outlive access token")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	auth, users := newAuthSvc(t)
	ctx := context.Background()
	if _, err := users.Register(ctx, Registration{Username: "jane", Password: "password1"}); err != nil {
		t.Fatal(err)
	}
	pair, err := auth.Login(ctx, "jane", "password2")
	if !errors.Is(err, ErrInvalidCredentials) || pair != nil {
		t.Fatalf("want ErrInvalidCredentials and no tokens, got %v %+v", err, pair)
	}
}

func TestAuthService_AuthorizeAndRefresh(t *testing.T) {
	auth, users := newAuthSvc(t)
	ctx := context.Background()
	u, _ := users.Register(ctx, Registration{Username: "kim", Password: "password1", Permissions: []domain.Permission{domain.PermUsersManage}})
	pair, err := auth.Login(ctx, "kim", "password1")
	if err != nil {
		t.Fatal(err)
	}

	id, err := auth.Authorize(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if id.UserID != u.ID || id.Username != "kim" || !id.Can(domain.PermUsersManage) {
		t.Fatalf("identity %+v", id)
	}

	if _, err := auth.Authorize(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh token used as bearer: want ErrUnauthorized, got %v", err)
	}
	if _, err := auth.Authorize(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage bearer: want ErrUnauthorized, got %v", err)
	}

	next, err := auth.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := auth.Authorize(ctx, next.AccessToken); err != nil {
		t.Fatalf("refreshed access token rejected: %v", err)
	}
	if _, err := auth.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("access token on refresh: want ErrWrongTokenType, got %v", err)
	}
	if _, err := auth.Refresh(ctx, "x.y.z"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("malformed refresh: want ErrInvalidToken, got %v", err)
	}

	if err := users.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("deleted user refresh: want ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_VerifyRejects(t *testing.T) {
	auth, users := newAuthSvc(t)
	ctx := context.Background()
	if _, err := users.Register(ctx, Registration{Username: "lee", Password: "password1"}); err != nil {
		t.Fatal(err)
	}
	pair, _ := auth.Login(ctx, "lee", "password1")

	// Expired.
	auth.Now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := auth.Verify(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: want ErrInvalidToken, got %v", err)
	}
	auth.Now = time.Now

	// Wrong key.
	other := NewAuthService(users, []byte("another-secret-123456"), "claims-test", time.Minute, time.Hour)
	if _, err := other.Verify(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong key: want ErrInvalidToken, got %v", err)
	}

	// Wrong issuer.
	other = NewAuthService(users, []byte(testSecret), "someone-else", time.Minute, time.Hour)
	if _, err := other.Verify(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: want ErrInvalidToken, got %v", err)
	}

	// alg=none.
	tc := decodeUnverified(t, pair.AccessToken)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, tc).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Verify(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none: want ErrInvalidToken, got %v", err)
	}

	// Signature of a different token.
	parts := strings.Split(pair.AccessToken, ".")
	parts[2] = strings.Split(pair.RefreshToken, ".")[2]
	if _, err := auth.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature: want ErrInvalidToken, got %v", err)
	}
}
