package handler

import (
	"net/http"

	"food-orders/internal/middleware"
	"food-orders/internal/model"
	"food-orders/internal/service"
	"food-orders/internal/validation"

	"github.com/rs/zerolog"
)

// UserHandler handles registration and login.
type UserHandler struct {
	service      service.UserService
	validator    *validation.Validator
	secureCookie bool
	logger       zerolog.Logger
}

// NewUserHandler creates a new user handler. secureCookie marks the session
// cookie as HTTPS-only.
func NewUserHandler(service service.UserService, validator *validation.Validator, secureCookie bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:      service,
		validator:    validator,
		secureCookie: secureCookie,
		logger:       logger.With().Str("handler", "user").Logger(),
	}
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    model.UserSummary `json:"user"`
}

// Register handles POST /api/users/register requests.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "user registered successfully",
		UserID:  user.ID,
	})
}

// Login handles POST /api/users/login requests. The token is returned in
// the body and also set as an HttpOnly cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Authenticate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   result.Token,
		User:    result.User,
	})
}
