package handler

import (
	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/adapter/http/middleware"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	ledgerSvc    ports.LedgerService
	reportingSvc ports.ReportingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerSvc ports.LedgerService, reportingSvc ports.ReportingService) *AccountHandler {
	return &AccountHandler{
		ledgerSvc:    ledgerSvc,
		reportingSvc: reportingSvc,
	}
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAccountNumber, req.Number)

	view, err := h.ledgerSvc.CreateAccount(c.Request.Context(), ports.CreateAccountRequest{
		Owner:          req.Owner,
		Number:         req.Number,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAccountResponse(view))
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	views, err := h.ledgerSvc.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponses(views))
}

// Details handles GET /api/v1/accounts/:number.
func (h *AccountHandler) Details(c *gin.Context) {
	number, err := parseAccountNumber(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.reportingSvc.AccountDetails(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountDetailsResponse(details))
}

// History handles GET /api/v1/accounts/:number/transactions.
func (h *AccountHandler) History(c *gin.Context) {
	number, err := parseAccountNumber(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, err := h.ledgerSvc.History(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := dto.ToTransactionResponses(txs)
	response.OK(c, dto.ListResponse[dto.TransactionResponse]{Items: items, Total: len(items)})
}

// Deposit handles POST /api/v1/accounts/:number/deposit.
func (h *AccountHandler) Deposit(c *gin.Context) {
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

	tx, err := h.ledgerSvc.Deposit(c.Request.Context(), number, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(tx))
}

// Withdraw handles POST /api/v1/accounts/:number/withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
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

	tx, err := h.ledgerSvc.Withdraw(c.Request.Context(), number, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(tx))
}
