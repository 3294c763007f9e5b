// Package handlers provides the Gin handlers of the claims API.
//
// Handlers are transport-thin: they decode requests, call the application
// services through the interfaces below, and translate results and service
// errors into JSON responses (see respondErr).
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/http/middleware"
	"github.com/tbourn/claims-backend/internal/repo"
	"github.com/tbourn/claims-backend/internal/services"
	"github.com/tbourn/claims-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// FormService reads and partially updates claim forms.
type FormService interface {
	Upsert(ctx context.Context, kind domain.FormKind, key repo.FormKey, input map[string]any) (domain.Payload, error)
	Get(ctx context.Context, kind domain.FormKind, key repo.FormKey) (domain.Payload, error)
	List(ctx context.Context, kind domain.FormKind, claimID string) ([]domain.Payload, error)
}

// ClaimService owns the claim lifecycle.
type ClaimService interface {
	Create(ctx context.Context, in services.NewClaim) (*domain.Claim, error)
	Get(ctx context.Context, claimID string) (*domain.Claim, error)
	ListPage(ctx context.Context, deleted bool, page, pageSize int) ([]domain.Claim, int64, error)
	Stats(ctx context.Context, deleted bool) (int64, *time.Time, error)
	SoftDelete(ctx context.Context, claimID string) error
	Restore(ctx context.Context, claimID string) error
	MarkInvoiceSent(ctx context.Context, claimID string) (*domain.Claim, error)
	Delete(ctx context.Context, claimID string) error
	Purge(ctx context.Context) (int64, error)
}

// DocumentService manages claim document bags.
type DocumentService interface {
	Get(ctx context.Context, claimID string) (*services.Documents, error)
	Save(ctx context.Context, claimID string, docs map[string]json.RawMessage) (*services.Documents, error)
	Delete(ctx context.Context, claimID, name string) (*services.Documents, error)
}

// UserService manages accounts.
type UserService interface {
	Register(ctx context.Context, in services.Registration) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id uint) error
	ChangePassword(ctx context.Context, caller domain.Identity, id uint, current, next string) error
}

// AuthService issues tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// IdempotencyStore remembers which resource a keyed create produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, scope, key string) (resourceID string, status int, ok bool)
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int)
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Idempotency may be nil.
type Services struct {
	Forms       FormService
	Claims      ClaimService
	Documents   DocumentService
	Users       UserService
	Auth        AuthService
	Idempotency IdempotencyStore
}

// Handlers groups every API endpoint.
type Handlers struct {
	forms  FormService
	claims ClaimService
	docs   DocumentService
	users  UserService
	auth   AuthService
	idem   IdempotencyStore
}

// New constructs Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		forms:  s.Forms,
		claims: s.Claims,
		docs:   s.Documents,
		users:  s.Users,
		auth:   s.Auth,
		idem:   s.Idempotency,
	}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Claim soft-deleted"`
	ClaimID string `json:"claim_id,omitempty" example:"CLM-1001"`
}

//
// Helpers
//

// caller returns the identity set by middleware.RequireAuth.
func caller(c *gin.Context) domain.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

var errEmptyBody = errors.New("empty body")

// decodeObject reads the request body as a JSON object, keeping numbers as
// json.Number so numeric strings and numbers are told apart downstream.
func decodeObject(c *gin.Context) (map[string]any, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errEmptyBody
	}
	return out, nil
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.Window(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("page_size"), services.DefaultPageSize),
		services.DefaultPageSize, services.MaxPageSize,
	)
}

func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
