// Package services – AuthService
//
// This file implements bearer-token authentication with HS256 JWTs. Login
// trades a username and password for an access/refresh pair; Refresh trades
// a refresh token for a new pair after reloading the account; Authorize
// turns an access token into the caller's domain.Identity. Tokens are not
// stored server-side, so they cannot be revoked before they expire.

package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Token type tags carried in the "type" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// TokenClaims is the JWT payload. Subject holds the user id.
type TokenClaims struct {
	Username    string               `json:"username"`
	Role        domain.Role          `json:"role"`
	Permissions domain.PermissionSet `json:"permissions"`
	Type        string               `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the response of Login and Refresh.
type TokenPair struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	User         *domain.Identity `json:"user,omitempty"`
}

// UserLookup is what AuthService needs from the account store.
type UserLookup interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// AuthService issues and verifies tokens.
type AuthService struct {
	Users      UserLookup
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// NewAuthService builds an AuthService. Zero TTLs fall back to 60 minutes
// and 7 days.
func NewAuthService(users UserLookup, secret []byte, issuer string, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		Users:      users,
		Secret:     secret,
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

// Login checks credentials and mints a token pair with the caller profile.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Login")
	defer span.End()

	u, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.AuthFailures.WithLabelValues("credentials").Inc()
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return s.issue(u)
}

// Refresh exchanges a refresh token for a new pair. The account is reloaded
// so role changes apply and deleted users are refused.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Refresh")
	defer span.End()

	tc, err := s.Verify(refreshToken)
	if err != nil {
		observability.AuthFailures.WithLabelValues("refresh_invalid").Inc()
		return nil, err
	}
	if tc.Type != TokenRefresh {
		observability.AuthFailures.WithLabelValues("refresh_wrong_type").Inc()
		return nil, ErrWrongTokenType
	}
	id, err := subjectID(tc)
	if err != nil {
		return nil, ErrInvalidToken
	}
	span.SetAttributes(attribute.Int64("user.id", int64(id)))

	u, err := s.Users.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		observability.AuthFailures.WithLabelValues("refresh_unknown_user").Inc()
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is
// reported as ErrInvalidToken.
func (s *AuthService) Verify(token string) (*TokenClaims, error) {
	tc := &TokenClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}
	_, err := jwt.ParseWithClaims(token, tc, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if tc.Type != TokenAccess && tc.Type != TokenRefresh {
		return nil, ErrInvalidToken
	}
	return tc, nil
}

// Authorize resolves an access token into the caller identity. Refresh
// tokens and invalid tokens yield ErrUnauthorized.
func (s *AuthService) Authorize(ctx context.Context, token string) (domain.Identity, error) {
	_, span := otel.Tracer("services/AuthService").Start(ctx, "Authorize",
		trace.WithAttributes(attribute.Bool("token.present", token != "")),
	)
	defer span.End()

	tc, err := s.Verify(token)
	if err != nil {
		observability.AuthFailures.WithLabelValues("bearer_invalid").Inc()
		return domain.Identity{}, ErrUnauthorized
	}
	if tc.Type != TokenAccess {
		observability.AuthFailures.WithLabelValues("bearer_wrong_type").Inc()
		return domain.Identity{}, ErrUnauthorized
	}
	id, err := subjectID(tc)
	if err != nil {
		return domain.Identity{}, ErrUnauthorized
	}
	perms := tc.Permissions
	if perms == nil {
		perms = domain.PermissionSet{}
	}
	return domain.Identity{
		UserID:      id,
		Username:    tc.Username,
		Role:        tc.Role,
		Permissions: perms,
	}, nil
}

func (s *AuthService) issue(u *domain.User) (*TokenPair, error) {
	ident := u.Identity()
	access, err := s.sign(ident, TokenAccess, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(ident, TokenRefresh, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.AccessTTL / time.Second),
		User:         &ident,
	}, nil
}

func (s *AuthService) sign(id domain.Identity, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	tc := TokenClaims{
		Username:    id.Username,
		Role:        id.Role,
		Permissions: id.Permissions,
		Type:        typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	out, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(s.Secret)
	if err != nil {
		return "", storage(err)
	}
	return out, nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func subjectID(tc *TokenClaims) (uint, error) {
	n, err := strconv.ParseUint(tc.Subject, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidToken
	}
	return uint(n), nil
}
