package handler

import (
	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoanHandler handles the loan lifecycle of an account.
type LoanHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(ledgerSvc ports.LedgerService) *LoanHandler {
	return &LoanHandler{ledgerSvc: ledgerSvc}
}

// Apply handles POST /api/v1/accounts/:number/loan.
func (h *LoanHandler) Apply(c *gin.Context) {
	number, err := parseAccountNumber(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AmountRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	tx, err := h.ledgerSvc.ApplyLoan(c.Request.Context(), number, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(tx))
}

// Pay handles POST /api/v1/accounts/:number/loan/payments.
// The installment is fixed by the loan, so the request has no body.
func (h *LoanHandler) Pay(c *gin.Context) {
	number, err := parseAccountNumber(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tx, err := h.ledgerSvc.PayLoan(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(tx))
}

// Get handles GET /api/v1/accounts/:number/loan.
func (h *LoanHandler) Get(c *gin.Context) {
	number, err := parseAccountNumber(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.ledgerSvc.GetAccount(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToLoanResponse(view.Loan))
}
