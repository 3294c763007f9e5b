// User and session HTTP handlers.
//
//   - POST /auth/login, /auth/refresh      token issue and rotation (public)
//   - GET  /me                             caller identity
//   - POST /register, GET /users           account administration
//   - DELETE /users/{id}, PUT /users/{id}/password
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/services"
)

// LoginRequest carries credentials. The same fields are accepted as form
// values.
type LoginRequest struct {
	Username string `json:"username" form:"username" example:"jane"`
	Password string `json:"password" form:"password" example:"correct horse battery"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username    string              `json:"username" example:"jane"`
	Password    string              `json:"password" example:"correct horse battery"`
	Role        domain.Role         `json:"role" example:"staff"`
	Permissions []domain.Permission `json:"permissions"`
}

// ChangePasswordRequest changes an account's password. CurrentPassword is
// required when callers change their own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          uint                `json:"id" example:"7"`
	Username    string              `json:"username" example:"jane"`
	Role        domain.Role         `json:"role" example:"staff"`
	Permissions []domain.Permission `json:"permissions"`
}

func toUserResponse(u *domain.User) UserResponse {
	perms := u.Permissions.Data().List()
	if perms == nil {
		perms = []domain.Permission{}
	}
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role, Permissions: perms}
}

// Login godoc
// @ID          login
// @Summary     Exchange credentials for an access and refresh token
// @Tags        Auth
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.TokenPair
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     429  {object}  handlers.ErrorResponse
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badBody(c, err, "username and password are required")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	ok(c, http.StatusOK, pair)
}

// Refresh godoc
// @ID          refresh
// @Summary     Rotate tokens using a refresh token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token"
// @Success     200  {object}  services.TokenPair
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired refresh token, or wrong token type"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		badBody(c, err, "refresh_token is required")
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		c.Header("Cache-Control", "no-store")
		ok(c, http.StatusOK, pair)
	case errors.Is(err, services.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid or expired refresh token")
	default:
		respondErr(c, err)
	}
}

// Me godoc
// @ID          me
// @Summary     The authenticated caller
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.Identity
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	id := caller(c)
	id.Permissions = domain.Effective(id.Role, id.Permissions)
	ok(c, http.StatusOK, id)
}

// Register godoc
// @ID          registerUser
// @Summary     Create an account
// @Description Role defaults to staff. Permissions add to the role's defaults.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.RegisterRequest  true  "Account"
// @Success     201  {object}  handlers.UserResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Username already exists"
// @Router      /register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "invalid JSON body")
		return
	}
	u, err := h.users.Register(c.Request.Context(), services.Registration(req))
	if err != nil {
		respondErr(c, err)
		return
	}
	ok(c, http.StatusCreated, toUserResponse(u))
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List non-admin accounts
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   handlers.UserResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	ok(c, http.StatusOK, out)
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete an account
// @Tags        Users
// @Security    BearerAuth
// @Param       id  path  int  true  "User ID"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, good := userIDParam(c)
	if !good {
		return
	}
	if id == caller(c).UserID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot delete your own account")
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	noContent(c)
}

// ChangePassword godoc
// @ID          changePassword
// @Summary     Change an account's password
// @Description Own account: current_password required. Other accounts: users:manage required.
// @Tags        Users
// @Accept      json
// @Security    BearerAuth
// @Param       id    path  int  true  "User ID"
// @Param       body  body  handlers.ChangePasswordRequest  true  "Passwords"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/password [put]
func (h *Handlers) ChangePassword(c *gin.Context) {
	id, good := userIDParam(c)
	if !good {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "invalid JSON body")
		return
	}
	err := h.users.ChangePassword(c.Request.Context(), caller(c), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondErr(c, err)
		return
	}
	noContent(c)
}

func userIDParam(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || n == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return uint(n), true
}
