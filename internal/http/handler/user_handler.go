package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles staff account management
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List godoc
// @Summary List users
// @Description Admins see every user, other users only themselves
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by email or name"
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.UserDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.userService.List(r.Context(), p.Page, p.PageSize, p.Search, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list users")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Success 200 {object} domain.UserDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "user")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already in use"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create user")
		return
	}
	respondCreated(w, "users", user.ID, user)
}

// Update godoc
// @Summary Update user
// @Description Non-admins may only edit themselves and cannot change role or active status
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body domain.UpdateUserRequest true "User data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "user")
	if !ok {
		return
	}
	var req domain.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Param id path string true "User ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.APIError "Cannot delete own account"
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "user")
	if !ok {
		return
	}
	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
