package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAuditLogNotFound is returned when an audit entry does not exist
var ErrAuditLogNotFound = errors.New("audit log not found")

// maxAuditPayload bounds the stored request body
const maxAuditPayload = 4000

// AuditLogService handles audit logging operations
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// LogEntry represents the input for creating an audit log entry
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	StatusCode int
	Payload    string
}

// Log creates an audit log entry from context and request
func (s *AuditLogService) Log(ctx context.Context, r *http.Request, entry LogEntry) error {
	auditLog := &domain.AuditLog{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		StatusCode: entry.StatusCode,
		Payload:    truncate(entry.Payload, maxAuditPayload),
	}

	if userCtx, ok := auth.FromContext(ctx); ok && userCtx != nil {
		auditLog.UserID = userCtx.UserID.String()
		auditLog.UserEmail = userCtx.Email
	}

	if r != nil {
		auditLog.Method = r.Method
		auditLog.Path = truncate(r.URL.Path, 500)
		auditLog.IPAddress = ClientIP(r)
		auditLog.UserAgent = r.UserAgent()
		auditLog.RequestID = r.Header.Get("X-Request-ID")
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.logger.Error("failed to create audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
		return err
	}

	return nil
}

// AuditLogQueryParams represents query parameters for listing audit logs
type AuditLogQueryParams struct {
	UserID     string
	Action     *domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
}

// List retrieves audit logs with filters
func (s *AuditLogService) List(ctx context.Context, params AuditLogQueryParams) (*domain.PaginatedResponse, error) {
	page, pageSize := repository.NormalizePage(params.Page, params.PageSize)
	filter := &repository.AuditLogFilter{
		UserID:     params.UserID,
		Action:     params.Action,
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		StartTime:  params.StartTime,
		EndTime:    params.EndTime,
	}

	logs, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// GetByID retrieves a specific audit log entry
func (s *AuditLogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogDTO, error) {
	log, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditLogNotFound
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	dto := mapper.ToAuditLogDTO(log)
	return &dto, nil
}

// GetStats returns audit log statistics for a time range
func (s *AuditLogService) GetStats(ctx context.Context, start, end time.Time) (map[domain.AuditAction]int64, error) {
	return s.auditRepo.CountByAction(ctx, start, end)
}

// ClientIP returns the caller address, preferring the first X-Forwarded-For
// hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
