package repo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/claims-backend/internal/domain"
)

// ErrKeyOwned is returned when an inspection id already belongs to a
// different claim.
var ErrKeyOwned = errors.New("key belongs to another claim")

// FormKey addresses a form row. InspectionID is only used by schemas whose
// conflict column differs from the owner column.
type FormKey struct {
	ClaimID      string
	InspectionID string
}

// UpsertForm writes the supplied columns of one form row with a single
// INSERT ... ON CONFLICT DO UPDATE and reads the row back. Only the columns
// in cols are touched on update; cols must already be normalized against s.
//
// With an empty cols the current row is returned instead (ErrNotFound when
// absent). For multi-row schemas an empty InspectionID inserts a new row
// under a generated id; the id used is available on the returned model.
func UpsertForm(ctx context.Context, db *gorm.DB, s *domain.Schema, key FormKey, cols map[string]any) (any, error) {
	if strings.TrimSpace(key.ClaimID) == "" {
		return nil, ErrNotFound
	}
	if len(cols) == 0 {
		return GetForm(ctx, db, s, key)
	}

	conflictVal := key.ClaimID
	if s.Multi() {
		if key.InspectionID == "" {
			key.InspectionID = uuid.NewString()
		} else if err := checkOwner(ctx, db, s, key); err != nil {
			return nil, err
		}
		conflictVal = key.InspectionID
	}

	now := time.Now().UTC()
	row := make(map[string]any, len(cols)+4)
	for c, v := range cols {
		row[c] = v
	}
	row[s.Owner] = key.ClaimID
	row[s.Conflict] = conflictVal
	row["created_at"] = now
	row["updated_at"] = now

	update := make([]string, 0, len(cols)+1)
	for c := range cols {
		update = append(update, c)
	}
	sort.Strings(update)
	update = append(update, "updated_at")

	err := db.WithContext(ctx).
		Model(s.New()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: s.Conflict}},
			DoUpdates: clause.AssignmentColumns(update),
		}).
		Create(row).Error
	if err != nil {
		return nil, errors.Wrapf(err, "upsert %s", s.Table)
	}

	out := s.New()
	err = db.WithContext(ctx).
		Where(map[string]any{s.Owner: key.ClaimID, s.Conflict: conflictVal}).
		Take(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The conflict row exists but is owned by someone else.
		return nil, ErrKeyOwned
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read back %s", s.Table)
	}
	return out, nil
}

func checkOwner(ctx context.Context, db *gorm.DB, s *domain.Schema, key FormKey) error {
	var owners []string
	err := db.WithContext(ctx).
		Model(s.New()).
		Where(map[string]any{s.Conflict: key.InspectionID}).
		Limit(1).
		Pluck(s.Owner, &owners).Error
	if err != nil {
		return errors.Wrapf(err, "lookup %s owner", s.Table)
	}
	if len(owners) > 0 && owners[0] != key.ClaimID {
		return ErrKeyOwned
	}
	return nil
}
