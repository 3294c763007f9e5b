// Package repo implements the data persistence layer for domain entities,
// backed by GORM.
//
// All functions are context-aware and accept a *gorm.DB handle, so services
// call them with the transaction opened by Atomic. They follow the "thin
// repository" approach: no business logic, only persistence and query
// composition.
//
// Error semantics:
//   - Missing rows surface as gorm.ErrRecordNotFound (exported here as
//     ErrNotFound); updates that touch no row return it too.
//   - Unique violations surface as ErrDuplicate.
//   - Everything else is wrapped with github.com/pkg/errors and should be
//     treated as a storage failure.
package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique-constraint violation.
var ErrDuplicate = errors.New("duplicate")

// CreateClaim inserts a claim header. Timestamps are set here.
func CreateClaim(ctx context.Context, db *gorm.DB, c *domain.Claim) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create claim")
	}
	return nil
}

// GetClaim fetches a claim by id, soft-deleted or not.
func GetClaim(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	var c domain.Claim
	err := db.WithContext(ctx).Where("claim_id = ?", claimID).Take(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get claim")
	}
	return &c, nil
}

// CountClaims counts claims in the active (deleted=false) or recently
// deleted set.
func CountClaims(ctx context.Context, db *gorm.DB, deleted bool) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Claim{}).
		Where("recently_deleted = ?", deleted).
		Count(&n).Error
	return n, errors.Wrap(err, "count claims")
}

// ListClaimsPage returns one page of claims, newest first.
func ListClaimsPage(ctx context.Context, db *gorm.DB, deleted bool, offset, limit int) ([]domain.Claim, error) {
	var out []domain.Claim
	order := "created_at desc, claim_id"
	if deleted {
		order = "recently_deleted_date desc, claim_id"
	}
	err := db.WithContext(ctx).
		Where("recently_deleted = ?", deleted).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list claims")
	}
	return out, nil
}

// SetClaimDeleted flips the soft-delete flag. at is stored as the deletion
// date (nil clears it).
func SetClaimDeleted(ctx context.Context, db *gorm.DB, claimID string, deleted bool, at *time.Time) error {
	return updateClaim(ctx, db, claimID, map[string]any{
		"recently_deleted":      deleted,
		"recently_deleted_date": at,
	})
}

// MarkInvoiceSent sets invoice_sent to "Sent" and returns the updated row.
// Run it inside a transaction so the read-back sees this write.
func MarkInvoiceSent(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	if err := updateClaim(ctx, db, claimID, map[string]any{"invoice_sent": domain.InvoiceSent}); err != nil {
		return nil, err
	}
	return GetClaim(ctx, db, claimID)
}

func updateClaim(ctx context.Context, db *gorm.DB, claimID string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Claim{}).
		Where("claim_id = ?", claimID).
		Updates(fields)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update claim")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClaim removes the claim header. Form rows and documents that
// reference the id are not touched.
func DeleteClaim(ctx context.Context, db *gorm.DB, claimID string) error {
	res := db.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&domain.Claim{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete claim")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeSoftDeleted hard-deletes claims soft-deleted before cutoff and
// returns how many went.
func PurgeSoftDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("recently_deleted = ? AND recently_deleted_date < ?", true, cutoff).
		Delete(&domain.Claim{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "purge claims")
	}
	return res.RowsAffected, nil
}
