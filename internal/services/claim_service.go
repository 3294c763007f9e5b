// Package services – ClaimService
//
// This file implements the claim lifecycle: creation, lookup, paginated
// listing of active and recently deleted claims, soft delete and restore,
// invoice marking, hard delete and the retention purge. Persistence goes
// through ClaimRepo so handlers and tests can substitute their own store.

package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/observability"
	"github.com/tbourn/claims-backend/internal/repo"
	"github.com/tbourn/claims-backend/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"
)

// DefaultRetention is how long a soft-deleted claim survives before Purge
// removes it.
const DefaultRetention = 72 * time.Hour

// Page size limits for ListPage.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClaimRepo is the persistence contract of ClaimService.
type ClaimRepo interface {
	CreateClaim(ctx context.Context, db *gorm.DB, c *domain.Claim) error
	GetClaim(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error)
	CountClaims(ctx context.Context, db *gorm.DB, deleted bool) (int64, error)
	ListClaimsPage(ctx context.Context, db *gorm.DB, deleted bool, offset, limit int) ([]domain.Claim, error)
	ClaimsStats(ctx context.Context, db *gorm.DB, deleted bool) (int64, *time.Time, error)
	SetClaimDeleted(ctx context.Context, db *gorm.DB, claimID string, deleted bool, at *time.Time) error
	MarkInvoiceSent(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error)
	DeleteClaim(ctx context.Context, db *gorm.DB, claimID string) error
	PurgeSoftDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}

// NewClaim carries the fields accepted on claim creation. An empty ClaimID
// is replaced by a generated UUID.
type NewClaim struct {
	ClaimID      string `json:"claim_id"`
	ClaimantName string `json:"claimant_name"`
	ClaimType    string `json:"claim_type"`
	Council      string `json:"council"`
}

// ClaimService owns the claim lifecycle.
type ClaimService struct {
	DB    *gorm.DB
	Repo  ClaimRepo
	Retry repo.RetryPolicy

	// Retention is the soft-delete grace period used by Purge.
	Retention time.Duration
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewClaimService builds a ClaimService with the default retention.
func NewClaimService(db *gorm.DB, r ClaimRepo) *ClaimService {
	return &ClaimService{
		DB:        db,
		Repo:      r,
		Retry:     repo.DefaultRetry,
		Retention: DefaultRetention,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// claimIDRE limits explicit claim ids to characters safe in a URL path.
var claimIDRE = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// Create validates in and inserts a new claim. An existing claim id yields
// ErrConflict.
func (s *ClaimService) Create(ctx context.Context, in NewClaim) (*domain.Claim, error) {
	ctx, span := otel.Tracer("services/ClaimService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("claim.id", in.ClaimID)),
	)
	defer span.End()

	c := &domain.Claim{
		ClaimID:      strings.TrimSpace(in.ClaimID),
		ClaimantName: normalizeName(in.ClaimantName),
		ClaimType:    normalizeName(in.ClaimType),
		Council:      normalizeName(in.Council),
	}
	switch {
	case c.ClaimID == "":
		c.ClaimID = uuid.NewString()
	case utf8.RuneCountInString(c.ClaimID) > MaxClaimIDLen:
		return nil, invalid("claim_id", "must be at most 64 characters")
	case !claimIDRE.MatchString(c.ClaimID):
		return nil, invalid("claim_id", "contains invalid characters")
	}
	if c.ClaimantName == "" {
		return nil, invalid("claimant_name", "is required")
	}
	if c.ClaimType == "" {
		return nil, invalid("claim_type", "is required")
	}

	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		return s.Repo.CreateClaim(ctx, tx, c)
	})
	if err != nil {
		return nil, translate(err, "Claim")
	}
	return c, nil
}

// Get returns a claim whether or not it is soft-deleted.
func (s *ClaimService) Get(ctx context.Context, claimID string) (*domain.Claim, error) {
	ctx, span := otel.Tracer("services/ClaimService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("claim.id", claimID)),
	)
	defer span.End()

	var c *domain.Claim
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		c, err = s.Repo.GetClaim(ctx, tx, claimID)
		return err
	})
	if err != nil {
		return nil, translate(err, "Claim")
	}
	return c, nil
}

// ListPage returns one page of active (deleted=false) or recently deleted
// claims and the total size of that set. page starts at 1; pageSize is
// clamped to [1, MaxPageSize] with DefaultPageSize for non-positive values.
func (s *ClaimService) ListPage(ctx context.Context, deleted bool, page, pageSize int) ([]domain.Claim, int64, error) {
	ctx, span := otel.Tracer("services/ClaimService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Bool("claims.deleted", deleted),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	page, pageSize = utils.Window(page, pageSize, DefaultPageSize, MaxPageSize)
	offset := utils.Offset(page, pageSize)

	var (
		items []domain.Claim
		total int64
	)
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		if total, err = s.Repo.CountClaims(ctx, tx, deleted); err != nil || total == 0 {
			return err
		}
		items, err = s.Repo.ListClaimsPage(ctx, tx, deleted, offset, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, translate(err, "Claim")
	}
	if items == nil {
		items = []domain.Claim{}
	}
	return items, total, nil
}

// Stats returns the size of a claim set and its latest update time, used
// to build list ETags.
func (s *ClaimService) Stats(ctx context.Context, deleted bool) (int64, *time.Time, error) {
	var (
		n    int64
		last *time.Time
	)
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		n, last, err = s.Repo.ClaimsStats(ctx, tx, deleted)
		return err
	})
	if err != nil {
		return 0, nil, translate(err, "Claim")
	}
	return n, last, nil
}

// SoftDelete flags a claim as recently deleted and stamps the time. The
// claim stays readable until Purge removes it.
func (s *ClaimService) SoftDelete(ctx context.Context, claimID string) error {
	now := s.Now()
	return s.transition(ctx, "SoftDelete", claimID, func(tx *gorm.DB) error {
		return s.Repo.SetClaimDeleted(ctx, tx, claimID, true, &now)
	})
}

// Restore clears the soft-delete flag and its timestamp.
func (s *ClaimService) Restore(ctx context.Context, claimID string) error {
	return s.transition(ctx, "Restore", claimID, func(tx *gorm.DB) error {
		return s.Repo.SetClaimDeleted(ctx, tx, claimID, false, nil)
	})
}

// MarkInvoiceSent records that the claim's invoice went out and returns the
// updated claim.
func (s *ClaimService) MarkInvoiceSent(ctx context.Context, claimID string) (*domain.Claim, error) {
	var out *domain.Claim
	err := s.transition(ctx, "MarkInvoiceSent", claimID, func(tx *gorm.DB) error {
		c, err := s.Repo.MarkInvoiceSent(ctx, tx, claimID)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a claim immediately. Its forms and documents remain.
func (s *ClaimService) Delete(ctx context.Context, claimID string) error {
	return s.transition(ctx, "Delete", claimID, func(tx *gorm.DB) error {
		return s.Repo.DeleteClaim(ctx, tx, claimID)
	})
}

func (s *ClaimService) transition(ctx context.Context, op, claimID string, fn func(tx *gorm.DB) error) error {
	ctx, span := otel.Tracer("services/ClaimService").Start(ctx, op,
		trace.WithAttributes(attribute.String("claim.id", claimID)),
	)
	defer span.End()

	if strings.TrimSpace(claimID) == "" {
		return invalid("claim_id", "is required")
	}
	return translate(repo.Atomic(ctx, s.DB, s.Retry, fn), "Claim")
}

// Purge hard-deletes claims soft-deleted longer than Retention ago and
// returns how many were removed.
func (s *ClaimService) Purge(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("services/ClaimService").Start(ctx, "Purge")
	defer span.End()

	retention := s.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := s.Now().Add(-retention)

	var n int64
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		n, err = s.Repo.PurgeSoftDeleted(ctx, tx, cutoff)
		return err
	})
	if err != nil {
		return 0, translate(err, "Claim")
	}
	span.SetAttributes(attribute.Int64("claims.purged", n))
	observability.ClaimsPurged.Add(float64(n))
	return n, nil
}

// normalizeName applies NFC and collapses whitespace.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(norm.NFC.String(s)), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
