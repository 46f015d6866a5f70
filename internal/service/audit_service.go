package service

import (
	"context"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit logs are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Log records an audit entry asynchronously (fire-and-forget).
func (s *auditService) Log(ctx context.Context, entry *domain.AuditLog) {
	go func() {
		ev := s.log.Info().
			Str("action", string(entry.Action)).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("outcome", entry.Outcome).
			Str("request_id", entry.RequestID).
			Str("ip", entry.IPAddress)
		if entry.AccountNumber != nil {
			ev = ev.Int64("account", *entry.AccountNumber)
		}
		ev.Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
				s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
			}
		}
	}()
}

// Recent returns the newest persisted audit entries. Without a repository the
// trail lives only in the log stream, so the list is empty.
func (s *auditService) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if s.repo == nil {
		return []domain.AuditLog{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultAuditLimit
	case limit > maxAuditLimit:
		limit = maxAuditLimit
	}

	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return logs, nil
}
