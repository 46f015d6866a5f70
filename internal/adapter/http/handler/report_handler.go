package handler

import (
	"strings"

	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/apperror"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultJournalLimit = 100
	defaultAuditLimit   = 100
)

// ReportHandler handles read-only reports across the ledger.
type ReportHandler struct {
	reportingSvc ports.ReportingService
	auditSvc     ports.AuditService // nil = audit trail disabled
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService, auditSvc ports.AuditService) *ReportHandler {
	return &ReportHandler{
		reportingSvc: reportingSvc,
		auditSvc:     auditSvc,
	}
}

// LoanTakers handles GET /api/v1/reports/loan-takers.
func (h *ReportHandler) LoanTakers(c *gin.Context) {
	views, err := h.reportingSvc.LoanTakers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponses(views))
}

// Journal handles GET /api/v1/reports/journal?limit=N.
// A limit of 0 returns up to the service maximum.
func (h *ReportHandler) Journal(c *gin.Context) {
	limit, err := parseLimit(c, defaultJournalLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, err := h.reportingSvc.Journal(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := dto.ToTransactionResponses(txs)
	response.OK(c, dto.ListResponse[dto.TransactionResponse]{Items: items, Total: len(items)})
}

// Summary handles GET /api/v1/reports/summary.
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportingSvc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToSummaryResponse(summary))
}

// AccountsByOwner handles GET /api/v1/customers/:name/accounts.
func (h *ReportHandler) AccountsByOwner(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		response.Error(c, apperror.Validation("customer name is required"))
		return
	}

	views, err := h.reportingSvc.AccountsByOwner(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponses(views))
}

// Audit handles GET /api/v1/reports/audit?limit=N.
func (h *ReportHandler) Audit(c *gin.Context) {
	limit, err := parseLimit(c, defaultAuditLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	var entries []domain.AuditLog
	if h.auditSvc != nil {
		entries, err = h.auditSvc.Recent(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, err)
			return
		}
	}
	if entries == nil {
		entries = []domain.AuditLog{}
	}
	response.OK(c, dto.ListResponse[domain.AuditLog]{Items: entries, Total: len(entries)})
}
