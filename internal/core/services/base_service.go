package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/google/uuid"
)

// AuditPublisher receives audit records once the mutation they describe has committed.
type AuditPublisher interface {
	Publish(record domain.AuditRecord)
}

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher AuditPublisher
	Clock     func() time.Time
}

// ServiceOption is a functional option for configuring the common parts of a service
type ServiceOption func(*BaseService)

// WithAuditPublisher forwards committed audit records to p.
func WithAuditPublisher(p AuditPublisher) ServiceOption {
	return func(s *BaseService) {
		s.Publisher = p
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs a failed operation. Client errors are logged at warn level,
// persistence failures at error level.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	if status, _, _ := apperrors.Describe(err); status < http.StatusInternalServerError {
		logger.Warn(msg, args...)
		return
	}
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// newAuditRecord builds the record written in the same transaction as a mutation.
// An empty tenantID marks a change to shared data.
func (s *BaseService) newAuditRecord(tenantID, actorID string, action domain.AuditAction, targetType, targetID string, metadata map[string]any) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:    uuid.NewString(),
		TenantID:   domain.StringPtr(tenantID),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
		CreatedAt:  s.now(),
	}
}

// publish hands committed audit records to the publisher, if one is configured.
func (s *BaseService) publish(records ...domain.AuditRecord) {
	if s.Publisher == nil {
		return
	}
	for _, r := range records {
		s.Publisher.Publish(r)
	}
}

// requireTenant rejects calls that carry no tenant.
func requireTenant(tenantID string) error {
	if tenantID == "" {
		return apperrors.NewAppError(http.StatusUnauthorized, "tenant is required", apperrors.ErrUnauthorized)
	}
	return nil
}

// authorizeTenant checks that the caller's tenant owns a tenant-scoped resource.
func authorizeTenant(callerTenantID, ownerTenantID, targetType, targetID string) error {
	if callerTenantID != ownerTenantID {
		return apperrors.NewAppError(http.StatusForbidden, targetType+" "+targetID+" belongs to another tenant", apperrors.ErrForbidden)
	}
	return nil
}

func invalidState(msg string) error {
	return apperrors.NewAppError(http.StatusUnprocessableEntity, msg, apperrors.ErrInvalidState)
}
