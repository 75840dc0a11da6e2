// internal/api/handler/auth.go
package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/service"
	"coupon-manager/internal/util"
)

// AuthHandler handles registration, login and token-bound account requests.
type AuthHandler struct {
	responder
	service service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AccountService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles account creation.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	h.respondWithJSON(w, http.StatusCreated, user)
}

// Login exchanges credentials for a bearer token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if util.IsError(err, util.ErrInvalidCredentials) {
			h.logger.Warn().Str("username", req.Username).Msg("Failed login attempt")
		}
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

// Me returns the account bound to the bearer token.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// Logout revokes the bearer token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", util.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
