package handler

import (
	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/adapter/http/middleware"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransferHandler handles transfers between accounts.
type TransferHandler struct {
	ledgerSvc ports.LedgerService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledgerSvc ports.LedgerService) *TransferHandler {
	return &TransferHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /api/v1/transfers.
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.TransferRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAccountNumber, req.From)

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		From:   req.From,
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransferResponse(result))
}
