// Claim HTTP handlers.
//
// This file exposes the claim lifecycle:
//   - POST   /claims                          (create, Idempotency-Key aware)
//   - GET    /claims                          (active claims, paginated, ETag)
//   - GET    /claims/recently-deleted         (soft-deleted claims, paginated, ETag)
//   - GET    /claims/{claim_id}
//   - PUT    /claims/{claim_id}/soft-delete | /restore | /invoice-sent
//   - DELETE /claims/{claim_id}               (hard delete)
//   - POST   /claims/purge                    (drop expired soft deletes)
//
// Idempotency:
// When the client sends an Idempotency-Key and a create with the same key
// already succeeded for the same user, the stored claim is returned with
// `Idempotency-Replayed: true` instead of creating another one.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/http/middleware"
	"github.com/tbourn/claims-backend/internal/services"
)

// CreateClaimRequest is the JSON payload for creating a claim.
type CreateClaimRequest struct {
	ClaimID      string `json:"claim_id" example:"CLM-1001"`
	ClaimantName string `json:"claimant_name" example:"Jane Doe"`
	ClaimType    string `json:"claim_type" example:"accident"`
	Council      string `json:"council" example:"Leeds"`
}

// CreateClaimResponse wraps a newly created claim.
type CreateClaimResponse struct {
	Message string        `json:"message" example:"Claim created successfully"`
	Claim   *domain.Claim `json:"claim"`
}

// ListClaimsResponse wraps a page of claims and pagination information.
type ListClaimsResponse struct {
	Claims     []domain.Claim `json:"claims"`
	Pagination Pagination     `json:"pagination"`
}

// PurgeResponse reports how many claims a purge removed.
type PurgeResponse struct {
	Purged int64 `json:"purged" example:"3"`
}

// CreateClaim godoc
// @ID          createClaim
// @Summary     Create a claim
// @Description claim_id is optional; a UUID is generated when absent. Supports Idempotency-Key for safe retries.
// @Tags        Claims
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"
// @Param       body  body  handlers.CreateClaimRequest  true  "Claim header"
// @Success     201  {object}  handlers.CreateClaimResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "claim_id already exists"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /claims [post]
func (h *Handlers) CreateClaim(c *gin.Context) {
	ctx := c.Request.Context()
	uid := fmt.Sprint(caller(c).UserID)
	scope := c.Request.Method + " " + c.FullPath()
	idemKey, hasKey := middleware.GetIdempotencyKey(c)

	// Replay path.
	if hasKey && h.idem != nil {
		if id, status, found := h.idem.Lookup(ctx, uid, scope, idemKey); found {
			if prev, err := h.claims.Get(ctx, id); err == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, status, CreateClaimResponse{Message: "Claim created successfully", Claim: prev})
				return
			}
		}
	}

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "invalid JSON body")
		return
	}
	cl, err := h.claims.Create(ctx, services.NewClaim(req))
	if err != nil {
		respondErr(c, err)
		return
	}

	if hasKey && h.idem != nil {
		h.idem.Remember(ctx, uid, scope, idemKey, cl.ClaimID, http.StatusCreated)
	}
	ok(c, http.StatusCreated, CreateClaimResponse{Message: "Claim created successfully", Claim: cl})
}

// ListClaims godoc
// @ID          listClaims
// @Summary     List active claims (paginated)
// @Description Soft-deleted claims are excluded. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListClaimsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /claims [get]
func (h *Handlers) ListClaims(c *gin.Context) { h.listClaims(c, false) }

// ListRecentlyDeletedClaims godoc
// @ID          listRecentlyDeletedClaims
// @Summary     List soft-deleted claims (paginated)
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListClaimsResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /claims/recently-deleted [get]
func (h *Handlers) ListRecentlyDeletedClaims(c *gin.Context) { h.listClaims(c, true) }

func (h *Handlers) listClaims(c *gin.Context, deleted bool) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.claims.Stats(ctx, deleted); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		set := "active"
		if deleted {
			set = "deleted"
		}
		etag := fmt.Sprintf(`W/"claims:%s:%d:%d:%d:%d"`, set, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.claims.ListPage(ctx, deleted, page, pageSize)
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListClaimsResponse{Claims: items, Pagination: paginate(page, pageSize, total)})
}

// GetClaim godoc
// @ID          getClaim
// @Summary     Fetch a claim
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  domain.Claim
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claims/{claim_id} [get]
func (h *Handlers) GetClaim(c *gin.Context) {
	cl, err := h.claims.Get(c.Request.Context(), c.Param("claim_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, cl)
}

// SoftDeleteClaim godoc
// @ID          softDeleteClaim
// @Summary     Move a claim to recently deleted
// @Description The claim is purged once it has been soft-deleted for three days.
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claims/{claim_id}/soft-delete [put]
func (h *Handlers) SoftDeleteClaim(c *gin.Context) {
	h.transition(c, h.claims.SoftDelete, "Claim soft-deleted")
}

// RestoreClaim godoc
// @ID          restoreClaim
// @Summary     Restore a soft-deleted claim
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claims/{claim_id}/restore [put]
func (h *Handlers) RestoreClaim(c *gin.Context) {
	h.transition(c, h.claims.Restore, "Claim restored")
}

// MarkInvoiceSent godoc
// @ID          markInvoiceSent
// @Summary     Mark a claim's invoice as sent
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  domain.Claim
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claims/{claim_id}/invoice-sent [put]
func (h *Handlers) MarkInvoiceSent(c *gin.Context) {
	claim, err := h.claims.MarkInvoiceSent(c.Request.Context(), c.Param("claim_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, claim)
}

// DeleteClaim godoc
// @ID          deleteClaim
// @Summary     Permanently delete a claim
// @Description Forms and documents of the claim are left in place.
// @Tags        Claims
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     204  {string}  string  "No Content"
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claims/{claim_id} [delete]
func (h *Handlers) DeleteClaim(c *gin.Context) {
	if err := h.claims.Delete(c.Request.Context(), c.Param("claim_id")); err != nil {
		respondErr(c, err)
		return
	}
	noContent(c)
}

// PurgeClaims godoc
// @ID          purgeClaims
// @Summary     Purge expired soft-deleted claims
// @Tags        Claims
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.PurgeResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /claims/purge [post]
func (h *Handlers) PurgeClaims(c *gin.Context) {
	n, err := h.claims.Purge(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, PurgeResponse{Purged: n})
}

func (h *Handlers) transition(c *gin.Context, fn func(ctx context.Context, claimID string) error, msg string) {
	id := c.Param("claim_id")
	if err := fn(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: msg, ClaimID: id})
}
