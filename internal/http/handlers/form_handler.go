// Form HTTP handlers.
//
// This file exposes the partial-upsert and read endpoints of every claim
// form type. One pair of generic handlers serves all five forms; the route
// decides where the claim id comes from:
//   - accident claims carry it in the path (POST|PUT /accident-claims/{claim_id})
//   - the other forms carry it in the body (POST|PUT /storage-forms)
//
// Pre-inspection forms additionally accept an optional inspection_id in the
// body; without one a new inspection is created.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"
)

// UpsertFormByPath handles upserts whose claim id is the :claim_id path
// parameter. A claim_id in the body is ignored.
//
// @ID          upsertAccidentClaim
// @Summary     Create or partially update an accident claim
// @Description Writes only the supplied fields; every other stored field keeps its value. Unknown keys are ignored.
// @Tags        Forms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Param       body      body  object  true  "Any subset of accident claim fields"
// @Success     200  {object}  object  "Full accident claim, every field present"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Empty update and no stored record"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /accident-claims/{claim_id} [post]
// @Router      /accident-claims/{claim_id} [put]
func (h *Handlers) UpsertFormByPath(kind domain.FormKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := decodeObject(c)
		if err != nil {
			badBody(c, err, "Invalid JSON")
			return
		}
		key := repo.FormKey{ClaimID: c.Param("claim_id")}
		h.upsertForm(c, kind, key, input)
	}
}

// UpsertFormByBody handles upserts whose claim id (and, for inspections,
// inspection id) is read from the JSON body.
//
// @ID          upsertForm
// @Summary     Create or partially update a claim form
// @Description claim_id is required in the body. Pre-inspection forms take an optional inspection_id; without it a new inspection is created.
// @Tags        Forms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  object  true  "claim_id plus any subset of the form's fields"
// @Success     200  {object}  object  "Full form record, every field present"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "inspection_id belongs to another claim"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /pre-inspection-forms [post]
// @Router      /cancellation-forms [post]
// @Router      /storage-forms [post]
// @Router      /rental-agreements [post]
func (h *Handlers) UpsertFormByBody(kind domain.FormKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := decodeObject(c)
		if err != nil {
			badBody(c, err, "Invalid or missing JSON body")
			return
		}
		claimID, ok := bodyString(input, "claim_id")
		if !ok || strings.TrimSpace(claimID) == "" {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest,
				"claim_id is required and must be a non-empty string in the request body")
			return
		}
		key := repo.FormKey{ClaimID: claimID}
		if kind == domain.FormPreInspection {
			if v, present := input["inspection_id"]; present && v != nil {
				inspID, ok := bodyString(input, "inspection_id")
				if !ok {
					fail(c, http.StatusBadRequest, ErrCodeBadRequest, "inspection_id must be a string")
					return
				}
				key.InspectionID = inspID
			}
		}
		h.upsertForm(c, kind, key, input)
	}
}

func (h *Handlers) upsertForm(c *gin.Context, kind domain.FormKind, key repo.FormKey, input map[string]any) {
	delete(input, "claim_id")
	delete(input, "inspection_id")
	rec, err := h.forms.Upsert(c.Request.Context(), kind, key, input)
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// GetForm returns the form of kind held by :claim_id.
//
// @ID          getForm
// @Summary     Fetch a claim form
// @Tags        Forms
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  object  "Full form record"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /accident-claims/{claim_id} [get]
// @Router      /cancellation-forms/{claim_id} [get]
// @Router      /storage-forms/{claim_id} [get]
// @Router      /rental-agreements/{claim_id} [get]
func (h *Handlers) GetForm(kind domain.FormKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := repo.FormKey{ClaimID: c.Param("claim_id"), InspectionID: c.Param("inspection_id")}
		rec, err := h.forms.Get(c.Request.Context(), kind, key)
		if err != nil {
			respondErr(c, err)
			return
		}
		ok(c, http.StatusOK, rec)
	}
}

// ListForms returns every form of kind held by :claim_id.
//
// @ID          listPreInspectionForms
// @Summary     List a claim's pre-inspection forms
// @Description Ordered by inspection_id. 404 when the claim has none.
// @Tags        Forms
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {array}   object
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /pre-inspection-forms/{claim_id} [get]
func (h *Handlers) ListForms(kind domain.FormKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := h.forms.List(c.Request.Context(), kind, c.Param("claim_id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		ok(c, http.StatusOK, recs)
	}
}

// bodyString reads a string-valued key. Numbers are accepted and rendered
// as their literal text.
func bodyString(m map[string]any, key string) (string, bool) {
	switch v := m[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	}
	return "", false
}
