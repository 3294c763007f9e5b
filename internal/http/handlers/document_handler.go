package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SaveDocumentsRequest is the body of PUT /claim-documents/{claim_id}.
// Each entry of Documents is stored verbatim under its name.
type SaveDocumentsRequest struct {
	Documents map[string]json.RawMessage `json:"documents" swaggertype:"object"`
}

// DocumentsResponse is a claim's document bag.
type DocumentsResponse struct {
	Message   string                     `json:"message,omitempty" example:"Documents saved successfully"`
	ClaimID   string                     `json:"claim_id" example:"CLM-1001"`
	Documents map[string]json.RawMessage `json:"documents" swaggertype:"object"`
}

// GetDocuments godoc
// @ID          getClaimDocuments
// @Summary     Fetch a claim's documents
// @Tags        Documents
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Success     200  {object}  handlers.DocumentsResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claim-documents/{claim_id} [get]
func (h *Handlers) GetDocuments(c *gin.Context) {
	docs, err := h.docs.Get(c.Request.Context(), c.Param("claim_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, DocumentsResponse{ClaimID: docs.ClaimID, Documents: docs.Documents})
}

// SaveDocuments godoc
// @ID          saveClaimDocuments
// @Summary     Merge documents into a claim's bag
// @Description Supplied names overwrite stored entries; other entries are kept.
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Param       body      body  handlers.SaveDocumentsRequest  true  "Documents to merge"
// @Success     200  {object}  handlers.DocumentsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /claim-documents/{claim_id} [put]
func (h *Handlers) SaveDocuments(c *gin.Context) {
	var req SaveDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "documents must be a JSON object")
		return
	}
	if req.Documents == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "documents must be a JSON object")
		return
	}
	docs, err := h.docs.Save(c.Request.Context(), c.Param("claim_id"), req.Documents)
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, DocumentsResponse{
		Message:   "Documents saved successfully",
		ClaimID:   docs.ClaimID,
		Documents: docs.Documents,
	})
}

// DeleteDocument godoc
// @ID          deleteClaimDocument
// @Summary     Remove one document from a claim's bag
// @Tags        Documents
// @Produce     json
// @Security    BearerAuth
// @Param       claim_id  path  string  true  "Claim ID"
// @Param       doc_name  path  string  true  "Document name"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /claim-documents/{claim_id}/{doc_name} [delete]
func (h *Handlers) DeleteDocument(c *gin.Context) {
	id, name := c.Param("claim_id"), c.Param("doc_name")
	if _, err := h.docs.Delete(c.Request.Context(), id, name); err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Document '%s' deleted successfully", name),
		ClaimID: id,
	})
}
