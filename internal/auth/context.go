package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
)

// SystemUserID identifies requests authenticated with the API key
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRole
	// IsSystem is set for API key callers; they act as admins but have no user row
	IsSystem bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsAdmin checks if the caller has admin rights
func (u *UserContext) IsAdmin() bool {
	return u.IsSystem || u.Role == domain.RoleAdmin
}

// CanAccessUser checks if the caller may read or edit another user's record
func (u *UserContext) CanAccessUser(id uuid.UUID) bool {
	return u.IsAdmin() || u.UserID == id
}

// UserIDPtr returns the caller id for created-by columns, nil for the system user
func (u *UserContext) UserIDPtr() *uuid.UUID {
	if u.IsSystem || u.UserID == uuid.Nil {
		return nil
	}
	id := u.UserID
	return &id
}

// GetDisplayNameInitials returns initials from the display name (e.g., "John Doe" -> "JD")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	parts := strings.Fields(u.DisplayName)
	initials := ""
	for _, part := range parts {
		if len(part) > 0 {
			initials += strings.ToUpper(string(part[0]))
		}
	}
	return initials
}

// NewSystemContext returns the identity used for API key and background job calls
func NewSystemContext() *UserContext {
	return &UserContext{
		UserID:      SystemUserID,
		DisplayName: "System",
		Email:       "system@medcare.local",
		Role:        domain.RoleAdmin,
		IsSystem:    true,
	}
}
