package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/repo"
)

// DefaultIdempotencyTTL bounds how long a keyed create can be replayed.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService remembers which resource a keyed create produced.
// Lookup and Remember never fail the request: storage errors are logged and
// treated as a miss.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

// NewIdempotencyService returns a service with DefaultIdempotencyTTL.
func NewIdempotencyService(db *gorm.DB) *IdempotencyService {
	return &IdempotencyService{DB: db, TTL: DefaultIdempotencyTTL, Now: time.Now}
}

func (s *IdempotencyService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Exists reports whether an unexpired record exists at now. It matches
// middleware.IdempotencyLookup.
func (s *IdempotencyService) Exists(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Lookup returns the resource id and status recorded for the key.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string) (string, int, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, s.now())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Ctx(ctx).Warn().Err(err).Str("scope", scope).Msg("idempotency lookup failed")
		}
		return "", 0, false
	}
	return rec.ResourceID, rec.Status, true
}

// Remember records the outcome of a keyed create. A concurrent duplicate is
// not an error: the first writer wins.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Ctx(ctx).Warn().Err(err).Str("scope", scope).Msg("idempotency record not stored")
	}
}

// Purge drops expired records.
func (s *IdempotencyService) Purge(ctx context.Context) (int64, error) {
	n, err := repo.PurgeExpiredIdempotency(ctx, s.DB, s.now())
	if err != nil {
		return 0, storage(err)
	}
	return n, nil
}
