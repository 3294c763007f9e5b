// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
)

// ClaimsStats returns the number of claims in the active (deleted=false) or
// recently deleted set and the greatest UpdatedAt among them.
//
// When the set is empty, count is 0 and maxUpdatedAt is nil.
func ClaimsStats(ctx context.Context, db *gorm.DB, deleted bool) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Claim{}).Where("recently_deleted = ?", deleted)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, errors.Wrap(err, "count claims")
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, errors.Wrap(err, "latest claim update")
	}
	return count, &row.UpdatedAt, nil
}
