package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionCreateAccount AuditAction = "CREATE_ACCOUNT"
	AuditActionDeposit       AuditAction = "DEPOSIT"
	AuditActionWithdraw      AuditAction = "WITHDRAW"
	AuditActionTransfer      AuditAction = "TRANSFER"
	AuditActionApplyLoan     AuditAction = "APPLY_LOAN"
	AuditActionPayLoan       AuditAction = "PAY_LOAN"
)

// AuditLog records a single state-changing request against the ledger.
type AuditLog struct {
	ID            uuid.UUID   `json:"id"`
	AccountNumber *int64      `json:"account_number,omitempty"`
	Action        AuditAction `json:"action"`
	ResourceType  string      `json:"resource_type"`
	ResourceID    string      `json:"resource_id,omitempty"`
	Outcome       string      `json:"outcome"` // OK or an error code
	RequestID     string      `json:"request_id,omitempty"`
	IPAddress     string      `json:"ip_address"`
	CreatedAt     time.Time   `json:"created_at"`
}
