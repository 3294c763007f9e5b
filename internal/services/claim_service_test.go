package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"
)

// repoClaims adapts the package-level repo functions to ClaimRepo.
type repoClaims struct{}

func (repoClaims) CreateClaim(ctx context.Context, db *gorm.DB, c *domain.Claim) error {
	return repo.CreateClaim(ctx, db, c)
}
func (repoClaims) GetClaim(ctx context.Context, db *gorm.DB, id string) (*domain.Claim, error) {
	return repo.GetClaim(ctx, db, id)
}
func (repoClaims) CountClaims(ctx context.Context, db *gorm.DB, deleted bool) (int64, error) {
	return repo.CountClaims(ctx, db, deleted)
}
func (repoClaims) ListClaimsPage(ctx context.Context, db *gorm.DB, deleted bool, offset, limit int) ([]domain.Claim, error) {
	return repo.ListClaimsPage(ctx, db, deleted, offset, limit)
}
func (repoClaims) ClaimsStats(ctx context.Context, db *gorm.DB, deleted bool) (int64, *time.Time, error) {
	return repo.ClaimsStats(ctx, db, deleted)
}
func (repoClaims) SetClaimDeleted(ctx context.Context, db *gorm.DB, id string, deleted bool, at *time.Time) error {
	return repo.SetClaimDeleted(ctx, db, id, deleted, at)
}
func (repoClaims) MarkInvoiceSent(ctx context.Context, db *gorm.DB, id string) (*domain.Claim, error) {
	return repo.MarkInvoiceSent(ctx, db, id)
}
func (repoClaims) DeleteClaim(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteClaim(ctx, db, id)
}
func (repoClaims) PurgeSoftDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	return repo.PurgeSoftDeleted(ctx, db, cutoff)
}

// failingClaims fails every call with a driver-style error.
type failingClaims struct{ repoClaims }

func (failingClaims) CreateClaim(context.Context, *gorm.DB, *domain.Claim) error {
	return errors.New("disk I/O error")
}

func newClaimSvc(t *testing.T) *ClaimService {
	t.Helper()
	return NewClaimService(newSvcDB(t), repoClaims{})
}

func TestClaimService_CreateAndGet(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, NewClaim{ClaimID: "C1", ClaimantName: "  Jane   Doe ", ClaimType: "accident"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ClaimantName != "Jane Doe" {
		t.Fatalf("name not normalized: %q", c.ClaimantName)
	}

	got, err := svc.Get(ctx, "C1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ClaimType != "accident" || got.Council != "" || got.RecentlyDeleted || got.InvoiceSent != "" {
		t.Fatalf("unexpected claim: %+v", got)
	}

	if _, err := svc.Create(ctx, NewClaim{ClaimID: "C1", ClaimantName: "x", ClaimType: "y"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate: want ErrConflict, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestClaimService_Create_GeneratesIDAndValidates(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, NewClaim{ClaimantName: "A", ClaimType: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.ClaimID) != 36 {
		t.Fatalf("expected uuid claim id, got %q", c.ClaimID)
	}

	cases := []struct {
		in    NewClaim
		field string
	}{
		{NewClaim{ClaimType: "B"}, "claimant_name"},
		{NewClaim{ClaimantName: "A"}, "claim_type"},
		{NewClaim{ClaimID: "a/b", ClaimantName: "A", ClaimType: "B"}, "claim_id"},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tc.in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("%+v: want %s validation error, got %v", tc.in, tc.field, err)
		}
	}
}

func TestClaimService_SoftDeleteRestoreRoundTrip(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()
	for _, id := range []string{"A", "B"} {
		if _, err := svc.Create(ctx, NewClaim{ClaimID: id, ClaimantName: "n", ClaimType: "t"}); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.SoftDelete(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	active, total, err := svc.ListPage(ctx, false, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(active) != 1 || active[0].ClaimID != "B" {
		t.Fatalf("active after soft delete: total=%d items=%+v", total, active)
	}
	deleted, _, err := svc.ListPage(ctx, true, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 1 || deleted[0].RecentlyDeletedDate == nil {
		t.Fatalf("recently deleted list: %+v", deleted)
	}

	if err := svc.Restore(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	c, _ := svc.Get(ctx, "A")
	if c.RecentlyDeleted || c.RecentlyDeletedDate != nil {
		t.Fatalf("restore did not clear soft delete: %+v", c)
	}
	_, total, _ = svc.ListPage(ctx, false, 1, 10)
	if total != 2 {
		t.Fatalf("active total after restore = %d", total)
	}

	if err := svc.Restore(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("restore missing: want ErrNotFound, got %v", err)
	}
}

func TestClaimService_ListPage_Defaults(t *testing.T) {
	svc := newClaimSvc(t)
	items, total, err := svc.ListPage(context.Background(), false, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("empty list: total=%d items=%#v", total, items)
	}
}

func TestClaimService_InvoiceAndDelete(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, NewClaim{ClaimID: "I1", ClaimantName: "n", ClaimType: "t"}); err != nil {
		t.Fatal(err)
	}
	sent, err := svc.MarkInvoiceSent(ctx, "I1")
	if err != nil {
		t.Fatal(err)
	}
	if sent.ClaimID != "I1" || sent.InvoiceSent != domain.InvoiceSent {
		t.Fatalf("returned claim = %+v", sent)
	}
	c, _ := svc.Get(ctx, "I1")
	if c.InvoiceSent != domain.InvoiceSent {
		t.Fatalf("invoice_sent = %q", c.InvoiceSent)
	}
	if _, err := svc.MarkInvoiceSent(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing claim: want ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "I1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "I1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestClaimService_PurgeRespectsRetention(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"old", "young", "live"} {
		if _, err := svc.Create(ctx, NewClaim{ClaimID: id, ClaimantName: "n", ClaimType: "t"}); err != nil {
			t.Fatal(err)
		}
	}
	svc.Now = func() time.Time { return base }
	if err := svc.SoftDelete(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	svc.Now = func() time.Time { return base.Add(48 * time.Hour) }
	if err := svc.SoftDelete(ctx, "young"); err != nil {
		t.Fatal(err)
	}

	svc.Now = func() time.Time { return base.Add(73 * time.Hour) }
	n, err := svc.Purge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
	if _, err := svc.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old should be gone, got %v", err)
	}
	for _, id := range []string{"young", "live"} {
		if _, err := svc.Get(ctx, id); err != nil {
			t.Fatalf("%s should survive: %v", id, err)
		}
	}
}

func TestClaimService_StorageErrorsAreWrapped(t *testing.T) {
	svc := NewClaimService(newSvcDB(t), failingClaims{})
	_, err := svc.Create(context.Background(), NewClaim{ClaimID: "X", ClaimantName: "n", ClaimType: "t"})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if PublicMessage(err) != "storage error" {
		t.Fatalf("driver detail leaked: %q", PublicMessage(err))
	}
}

func TestClaimService_Stats(t *testing.T) {
	svc := newClaimSvc(t)
	ctx := context.Background()
	n, last, err := svc.Stats(ctx, false)
	if err != nil || n != 0 || last != nil {
		t.Fatalf("empty stats: %d %v %v", n, last, err)
	}
	if _, err := svc.Create(ctx, NewClaim{ClaimID: "S", ClaimantName: "n", ClaimType: "t"}); err != nil {
		t.Fatal(err)
	}
	n, last, err = svc.Stats(ctx, false)
	if err != nil || n != 1 || last == nil {
		t.Fatalf("stats: %d %v %v", n, last, err)
	}
}
