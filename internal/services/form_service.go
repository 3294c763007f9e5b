// Package services – FormService
//
// This file implements FormService, the single entry point for every claim
// form type. Callers pass a domain.FormKind and a loosely typed field map
// (decoded request JSON); the service resolves the form's schema, keeps only
// the declared fields, coerces their values and hands the result to the
// generic repo.UpsertForm. Responses are shaped by the schema, so every
// declared field is present in declaration order with its default.

package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxClaimIDLen bounds claim and inspection identifiers.
const MaxClaimIDLen = 64

// FormService reads and partially updates claim forms.
type FormService struct {
	DB    *gorm.DB
	Retry repo.RetryPolicy
}

// NewFormService builds a FormService using the default acquisition retry.
func NewFormService(db *gorm.DB) *FormService {
	return &FormService{DB: db, Retry: repo.DefaultRetry}
}

// Upsert writes the recognized fields of input into the form addressed by
// key and returns the stored record. Fields absent from input keep their
// stored values. When input names no recognized field the current record is
// returned, or ErrNotFound if there is none.
func (s *FormService) Upsert(ctx context.Context, kind domain.FormKind, key repo.FormKey, input map[string]any) (domain.Payload, error) {
	ctx, span := otel.Tracer("services/FormService").Start(ctx, "Upsert",
		trace.WithAttributes(
			attribute.String("form.kind", string(kind)),
			attribute.String("claim.id", key.ClaimID),
			attribute.String("inspection.id", key.InspectionID),
		),
	)
	defer span.End()

	sch, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}
	if key, err = checkKey(key); err != nil {
		return nil, err
	}
	cols, err := sch.Normalize(input)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("form.columns", len(cols)))

	var rec any
	err = repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		rec, err = repo.UpsertForm(ctx, tx, sch, key, cols)
		return err
	})
	if err != nil {
		return nil, translate(err, labelFor(kind))
	}
	return sch.Shape(rec), nil
}

// Get returns one form. For pre-inspection forms an empty InspectionID
// selects the claim's first inspection.
func (s *FormService) Get(ctx context.Context, kind domain.FormKind, key repo.FormKey) (domain.Payload, error) {
	ctx, span := otel.Tracer("services/FormService").Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("form.kind", string(kind)),
			attribute.String("claim.id", key.ClaimID),
		),
	)
	defer span.End()

	sch, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}
	var rec any
	err = repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		rec, err = repo.GetForm(ctx, tx, sch, key)
		return err
	})
	if err != nil {
		return nil, translate(err, labelFor(kind))
	}
	return sch.Shape(rec), nil
}

// List returns every form of kind held by a claim, ordered by inspection id.
// An empty result is ErrNotFound.
func (s *FormService) List(ctx context.Context, kind domain.FormKind, claimID string) ([]domain.Payload, error) {
	ctx, span := otel.Tracer("services/FormService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("form.kind", string(kind)),
			attribute.String("claim.id", claimID),
		),
	)
	defer span.End()

	sch, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}
	var (
		rows any
		n    int
	)
	err = repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		rows, n, err = repo.ListForms(ctx, tx, sch, claimID)
		return err
	})
	if err != nil {
		return nil, translate(err, labelFor(kind))
	}
	if n == 0 {
		return nil, notFound("no %ss found for this claim", kind.Label())
	}
	span.SetAttributes(attribute.Int("form.count", n))
	return sch.ShapeAll(rows), nil
}

func schemaFor(kind domain.FormKind) (*domain.Schema, error) {
	sch, ok := domain.SchemaFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown form kind %q", kind)
	}
	return sch, nil
}

func labelFor(kind domain.FormKind) string {
	l := kind.Label()
	return strings.ToUpper(l[:1]) + l[1:]
}

func checkKey(key repo.FormKey) (repo.FormKey, error) {
	key.ClaimID = strings.TrimSpace(key.ClaimID)
	key.InspectionID = strings.TrimSpace(key.InspectionID)
	if key.ClaimID == "" {
		return key, invalid("claim_id", "is required")
	}
	if utf8.RuneCountInString(key.ClaimID) > MaxClaimIDLen {
		return key, invalid("claim_id", fmt.Sprintf("must be at most %d characters", MaxClaimIDLen))
	}
	if utf8.RuneCountInString(key.InspectionID) > MaxClaimIDLen {
		return key, invalid("inspection_id", fmt.Sprintf("must be at most %d characters", MaxClaimIDLen))
	}
	return key, nil
}
