package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// APIPrefix is the mount point of the versioned API, used for Location headers
const APIPrefix = "/api/v1"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return domain.IsValidCountry(fl.Field().String())
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondCreated sends 201 with a Location header for the new resource
func respondCreated(w http.ResponseWriter, collection string, id uuid.UUID, data interface{}) {
	w.Header().Set("Location", fmt.Sprintf("%s/%s/%s", APIPrefix, collection, id))
	respondJSON(w, http.StatusCreated, data)
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	if field == "ID" || field == "IDs" {
		return strings.ToLower(field)
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusTooManyRequests:
		return domain.ErrorTypeRateLimited
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeUnavailable
	default:
		return domain.ErrorTypeInternal
	}
}

var notFoundErrors = []error{
	service.ErrScopeNotFound,
	service.ErrBrandNotFound,
	service.ErrManufacturerNotFound,
	service.ErrCompanyNotFound,
	service.ErrPartNotFound,
	service.ErrEvaluationNotFound,
	service.ErrQuotationNotFound,
	service.ErrRepairNotFound,
	service.ErrInventoryItemNotFound,
	service.ErrInvoiceNotFound,
	service.ErrUserNotFound,
	service.ErrMediaNotFound,
	service.ErrNotificationNotFound,
	service.ErrAuditLogNotFound,
}

var conflictErrors = []error{
	service.ErrDuplicateSerialNumber,
	service.ErrBrandTitleTaken,
	service.ErrEmailTaken,
}

var badRequestErrors = []error{
	service.ErrInvalidInput,
	service.ErrInvalidBrand,
	service.ErrInvalidManufacturer,
	service.ErrInvalidCountry,
	service.ErrInvalidScopeStatus,
	service.ErrInvalidScopeType,
	service.ErrBulkNoIDs,
	service.ErrBulkUnknownAction,
	service.ErrBulkStatusRequired,
	service.ErrBulkNoFields,
	service.ErrDiscountExceedsPrice,
	service.ErrScopeNotApproved,
	service.ErrEvaluationNotApproved,
	service.ErrZeroAdjustment,
	service.ErrQuotationWithoutScope,
	service.ErrCannotDeleteSelf,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps service errors to HTTP responses. Anything unknown is
// logged and reported as a 500 with "Failed to <action>".
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var related *domain.RelatedRecordsError
	switch {
	case errors.As(err, &related):
		respondWithError(w, http.StatusConflict, related.Error())
	case isAny(err, notFoundErrors):
		respondWithError(w, http.StatusNotFound, capitalize(err.Error()))
	case isAny(err, conflictErrors):
		respondWithError(w, http.StatusConflict, capitalize(err.Error()))
	case isAny(err, badRequestErrors):
		respondWithError(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrUserContextRequired):
		respondWithError(w, http.StatusUnauthorized, capitalize(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrRoleChangeDenied):
		respondWithError(w, http.StatusForbidden, capitalize(err.Error()))
	case errors.Is(err, service.ErrERPNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, capitalize(err.Error()))
	default:
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeAndValidate reads a JSON body into dst and validates it.
// It writes the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseIDParam parses a UUID path parameter, answering 400 when it is malformed
func parseIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format", label))
		return uuid.Nil, false
	}
	return id, true
}

// listParams holds the common paging and sorting query parameters
type listParams struct {
	Page     int
	PageSize int
	Sort     repository.SortConfig
	Search   string
}

// parseListParams reads page, limit (or pageSize), sort ("-field" or sortBy/sortOrder) and search
func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("limit"))
	if pageSize == 0 {
		pageSize, _ = strconv.Atoi(q.Get("pageSize"))
	}
	page, pageSize = repository.NormalizePage(page, pageSize)

	sort := repository.ParseSort(q.Get("sort"))
	if sortBy := q.Get("sortBy"); sortBy != "" {
		sort.Field = sortBy
		sort.Order = repository.ParseSortOrder(q.Get("sortOrder"))
	}

	return listParams{
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Search:   strings.TrimSpace(q.Get("search")),
	}
}

// queryUUID parses an optional UUID query parameter
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be a valid UUID", name)
	}
	return &id, nil
}

// queryEnum returns a pointer to the typed query value, or nil when absent
func queryEnum[T ~string](r *http.Request, name string) *T {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}
