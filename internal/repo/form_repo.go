package repo

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
)

// GetForm returns the form row for key, or ErrNotFound. For multi-row
// schemas without an InspectionID the row with the lowest inspection id is
// returned.
func GetForm(ctx context.Context, db *gorm.DB, s *domain.Schema, key FormKey) (any, error) {
	q := db.WithContext(ctx).Where(map[string]any{s.Owner: key.ClaimID})
	if s.Multi() {
		if key.InspectionID != "" {
			q = q.Where(map[string]any{s.Conflict: key.InspectionID})
		}
		q = q.Order(s.Conflict)
	}
	out := s.New()
	if err := q.Take(out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %s", s.Table)
	}
	return out, nil
}

// ListForms returns a pointer to a slice of every row a claim owns, ordered
// by the conflict column, together with its length.
func ListForms(ctx context.Context, db *gorm.DB, s *domain.Schema, claimID string) (any, int, error) {
	out := s.NewSlice()
	err := db.WithContext(ctx).
		Where(map[string]any{s.Owner: claimID}).
		Order(s.Conflict).
		Find(out).Error
	if err != nil {
		return nil, 0, errors.Wrapf(err, "list %s", s.Table)
	}
	return out, reflect.ValueOf(out).Elem().Len(), nil
}
