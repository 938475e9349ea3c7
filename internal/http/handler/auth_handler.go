package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log in")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Me(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
