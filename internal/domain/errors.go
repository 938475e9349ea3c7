package domain

import (
	"fmt"
	"strings"
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"lt":       "Must be less than maximum value",
	"uuid":     "Must be a valid UUID",
	"url":      "Must be a valid URL",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
	"dive":     "One or more items are invalid",
	"country":  "Must be one of the supported manufacturer countries",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeRateLimited  = "rate_limited"
	ErrorTypeUnavailable  = "service_unavailable"
	ErrorTypeInternal     = "internal_error"
)

// RelatedCount is the number of dependent rows in one collection
type RelatedCount struct {
	Collection string `json:"collection"`
	Count      int64  `json:"count"`
}

// RelatedRecordsError is returned when a delete is blocked by dependent records
type RelatedRecordsError struct {
	Entity  string
	Related []RelatedCount
}

func (e *RelatedRecordsError) Error() string {
	parts := make([]string, 0, len(e.Related))
	for _, r := range e.Related {
		parts = append(parts, fmt.Sprintf("%s (%d)", r.Collection, r.Count))
	}
	return fmt.Sprintf("Cannot delete %s because it has related records in: %s. Please delete the related records first.",
		e.Entity, strings.Join(parts, ", "))
}
