package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxDocumentNameLen bounds document names.
const MaxDocumentNameLen = 255

// Documents is the response shape of a claim's document bag.
type Documents struct {
	ClaimID   string                     `json:"claim_id"`
	Documents map[string]json.RawMessage `json:"documents"`
}

// DocumentService manages the free-form document bag of each claim.
type DocumentService struct {
	DB    *gorm.DB
	Retry repo.RetryPolicy
}

// NewDocumentService builds a DocumentService using the default retry.
func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{DB: db, Retry: repo.DefaultRetry}
}

// Get returns the document bag of a claim.
func (s *DocumentService) Get(ctx context.Context, claimID string) (*Documents, error) {
	ctx, span := otel.Tracer("services/DocumentService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("claim.id", claimID)),
	)
	defer span.End()

	var d *domain.ClaimDocuments
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		d, err = repo.GetDocuments(ctx, tx, claimID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("No documents found for this claim")
	}
	if err != nil {
		return nil, translate(err, "Documents")
	}
	return decodeDocuments(d)
}

// Save merges docs into the claim's bag, creating it when missing. Keys not
// named in docs are kept; named keys are overwritten.
func (s *DocumentService) Save(ctx context.Context, claimID string, docs map[string]json.RawMessage) (*Documents, error) {
	ctx, span := otel.Tracer("services/DocumentService").Start(ctx, "Save",
		trace.WithAttributes(
			attribute.String("claim.id", claimID),
			attribute.Int("documents.count", len(docs)),
		),
	)
	defer span.End()

	if _, err := checkKey(repo.FormKey{ClaimID: claimID}); err != nil {
		return nil, err
	}
	for name, v := range docs {
		if err := checkDocumentName(name); err != nil {
			return nil, err
		}
		if !json.Valid(v) {
			return nil, invalid(name, "must be valid JSON")
		}
	}

	var d *domain.ClaimDocuments
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		d, err = repo.MergeDocuments(ctx, tx, claimID, docs)
		return err
	})
	if err != nil {
		return nil, translate(err, "Documents")
	}
	return decodeDocuments(d)
}

// Delete removes one named document. A missing bag or name is ErrNotFound
// and leaves the bag unchanged.
func (s *DocumentService) Delete(ctx context.Context, claimID, name string) (*Documents, error) {
	ctx, span := otel.Tracer("services/DocumentService").Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("claim.id", claimID),
			attribute.String("document.name", name),
		),
	)
	defer span.End()

	if err := checkDocumentName(name); err != nil {
		return nil, err
	}
	var d *domain.ClaimDocuments
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		d, err = repo.RemoveDocument(ctx, tx, claimID, name)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("Document not found for this claim")
	}
	if err != nil {
		return nil, translate(err, "Document")
	}
	return decodeDocuments(d)
}

func checkDocumentName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalid("doc_name", "is required")
	case utf8.RuneCountInString(name) > MaxDocumentNameLen:
		return invalid("doc_name", "is too long")
	case strings.ContainsAny(name, "\"\\"):
		return invalid("doc_name", "must not contain quotes or backslashes")
	}
	return nil
}

func decodeDocuments(d *domain.ClaimDocuments) (*Documents, error) {
	out := &Documents{ClaimID: d.ClaimID, Documents: map[string]json.RawMessage{}}
	if len(d.Documents) > 0 {
		if err := json.Unmarshal(d.Documents, &out.Documents); err != nil {
			return nil, storage(err)
		}
		if out.Documents == nil {
			out.Documents = map[string]json.RawMessage{}
		}
	}
	return out, nil
}
