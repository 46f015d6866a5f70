package ports

import (
	"context"

	"bank-simulator/internal/core/domain"
)

// AuditRepository persists the audit trail. Ledger state itself is in memory only.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}
