package postgres

import (
	"context"
	"fmt"

	"bank-simulator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const auditSchema = `CREATE TABLE IF NOT EXISTS audit_logs (
	id             UUID PRIMARY KEY,
	account_number BIGINT,
	action         TEXT NOT NULL,
	resource_type  TEXT NOT NULL,
	resource_id    TEXT,
	outcome        TEXT NOT NULL,
	request_id     TEXT,
	ip_address     TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// EnsureSchema creates the audit table if it does not exist.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("create audit_logs: %w", err)
	}
	return nil
}

// Create inserts one audit entry.
func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, account_number, action, resource_type, resource_id, outcome, request_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		log.ID, log.AccountNumber, string(log.Action), log.ResourceType,
		log.ResourceID, log.Outcome, log.RequestID, log.IPAddress, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	query := `SELECT id, account_number, action, resource_type, resource_id, outcome, request_id, ip_address, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}
	return logs, nil
}

func scanAuditLog(row pgx.Row) (domain.AuditLog, error) {
	var (
		log    domain.AuditLog
		action string
	)
	err := row.Scan(
		&log.ID, &log.AccountNumber, &action, &log.ResourceType,
		&log.ResourceID, &log.Outcome, &log.RequestID, &log.IPAddress, &log.CreatedAt,
	)
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("scan audit log: %w", err)
	}
	log.Action = domain.AuditAction(action)
	return log, nil
}
