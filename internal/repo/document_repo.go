package repo

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/claims-backend/internal/domain"
)

// SQLite caps function arguments; each key takes two json_set arguments.
const jsonSetBatch = 50

// GetDocuments returns the document bag of a claim, or ErrNotFound.
func GetDocuments(ctx context.Context, db *gorm.DB, claimID string) (*domain.ClaimDocuments, error) {
	var d domain.ClaimDocuments
	err := db.WithContext(ctx).Where("claim_id = ?", claimID).Take(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get documents")
	}
	return &d, nil
}

// MergeDocuments adds or overwrites the given top-level keys in the claim's
// document bag, creating the bag if needed. Keys not named in docs are kept.
// The merge runs in the database (jsonb || on Postgres, json_set elsewhere).
func MergeDocuments(ctx context.Context, db *gorm.DB, claimID string, docs map[string]json.RawMessage) (*domain.ClaimDocuments, error) {
	now := time.Now().UTC()
	seed := &domain.ClaimDocuments{
		ClaimID:   claimID,
		Documents: datatypes.JSON("{}"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "claim_id"}}, DoNothing: true}).
		Create(seed).Error
	if err != nil {
		return nil, errors.Wrap(err, "seed documents")
	}

	if len(docs) > 0 {
		if err := mergeDocuments(ctx, db, claimID, docs, now); err != nil {
			return nil, err
		}
	}
	return GetDocuments(ctx, db, claimID)
}

func mergeDocuments(ctx context.Context, db *gorm.DB, claimID string, docs map[string]json.RawMessage, now time.Time) error {
	q := db.WithContext(ctx)
	if q.Dialector.Name() == DriverPostgres {
		patch, err := json.Marshal(docs)
		if err != nil {
			return errors.Wrap(err, "encode documents")
		}
		err = q.Exec(
			`UPDATE claim_documents SET documents = COALESCE(documents, '{}'::jsonb) || CAST(? AS jsonb), updated_at = ? WHERE claim_id = ?`,
			string(patch), now, claimID,
		).Error
		return errors.Wrap(err, "merge documents")
	}

	setFn, castFn, empty := "json_set", "json(?)", "'{}'"
	if q.Dialector.Name() == DriverMySQL {
		setFn, castFn, empty = "JSON_SET", "CAST(? AS JSON)", "JSON_OBJECT()"
	}

	names := make([]string, 0, len(docs))
	for k := range docs {
		names = append(names, k)
	}
	sort.Strings(names)

	for len(names) > 0 {
		n := min(len(names), jsonSetBatch)
		batch := names[:n]
		names = names[n:]

		var expr strings.Builder
		args := make([]any, 0, 2*len(batch)+2)
		expr.WriteString(setFn + "(COALESCE(documents, " + empty + ")")
		for _, k := range batch {
			expr.WriteString(", ?, " + castFn)
			args = append(args, jsonPath(k), string(docs[k]))
		}
		expr.WriteString(")")
		args = append(args, now, claimID)

		err := q.Exec(`UPDATE claim_documents SET documents = `+expr.String()+`, updated_at = ? WHERE claim_id = ?`, args...).Error
		if err != nil {
			return errors.Wrap(err, "merge documents")
		}
	}
	return nil
}

// RemoveDocument deletes one top-level key from the claim's document bag.
// It returns ErrNotFound when the bag or the key does not exist.
func RemoveDocument(ctx context.Context, db *gorm.DB, claimID, name string) (*domain.ClaimDocuments, error) {
	d, err := GetDocuments(ctx, db, claimID)
	if err != nil {
		return nil, err
	}
	var bag map[string]json.RawMessage
	if len(d.Documents) > 0 {
		if err := json.Unmarshal(d.Documents, &bag); err != nil {
			return nil, errors.Wrap(err, "decode documents")
		}
	}
	if _, ok := bag[name]; !ok {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	q := db.WithContext(ctx)
	switch q.Dialector.Name() {
	case DriverPostgres:
		err = q.Exec(`UPDATE claim_documents SET documents = documents - CAST(? AS text), updated_at = ? WHERE claim_id = ?`, name, now, claimID).Error
	case DriverMySQL:
		err = q.Exec(`UPDATE claim_documents SET documents = JSON_REMOVE(documents, ?), updated_at = ? WHERE claim_id = ?`, jsonPath(name), now, claimID).Error
	default:
		err = q.Exec(`UPDATE claim_documents SET documents = json_remove(documents, ?), updated_at = ? WHERE claim_id = ?`, jsonPath(name), now, claimID).Error
	}
	if err != nil {
		return nil, errors.Wrap(err, "remove document")
	}
	return GetDocuments(ctx, db, claimID)
}

// jsonPath quotes a top-level member name for SQLite and MySQL JSON paths.
// Names containing '"' or '\' are rejected by the service layer.
func jsonPath(name string) string {
	return `$."` + name + `"`
}
