package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// RegisterRequest is the request body for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"omitempty,max=150"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// Validate implements helpers.Validator.
func (req *RegisterRequest) Validate() []string {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return []string{"Username and password are required"}
	}
	return nil
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (req *LoginRequest) Validate() []string {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return []string{"Username and password is required"}
	}
	return nil
}

// LoginResponse is the response body for POST /api/login.
type LoginResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	TokenType string `json:"token_type"`
}

// RefreshRequest is the request body for POST /api/token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse is the response body for POST /api/token/refresh.
type RefreshResponse struct {
	Access    string `json:"access"`
	TokenType string `json:"token_type"`
}

// LoginSuccessResponse is the success response envelope for POST /api/login (200).
type LoginSuccessResponse struct {
	Data  *LoginResponse `json:"data"`
	Error *h.APIError    `json:"error"`
}

// MeSuccessResponse is the success response envelope for GET /api/users/me (200).
type MeSuccessResponse struct {
	Data  *domain.UserSummary `json:"data"`
	Error *h.APIError         `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user with username and password. Email is optional; when present a welcome email is sent.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data.message: User registered successfully"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	_, err := c.Service.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Username already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, h.MessageResponse{Message: "User registered successfully"})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and password. Returns an access and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	pair, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Invalid username or password")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Username and password is required")
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Access: pair.Access, Refresh: pair.Refresh, TokenType: "Bearer"})
}

// Refresh godoc
// @Summary Refresh an access token
// @Description Exchange a refresh token for a new access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} helpers.APIResponse "data contains access and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /token/refresh [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	access, err := c.Service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
			return
		}
		writeInternalError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, RefreshResponse{Access: access, TokenType: "Bearer"})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		writeInternalError(w, r, c.Logger, err)
		return
	}
	summary := user.Summary()
	h.WriteJSONSuccess(w, http.StatusOK, &summary)
}
