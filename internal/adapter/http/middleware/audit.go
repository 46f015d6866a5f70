package middleware

import (
	"net/http"
	"strconv"
	"time"

	"bank-simulator/internal/core/domain"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records every state-changing
// request with its outcome. Idempotent replays and requests rejected by the
// idempotency guard are not recorded.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodPost || c.GetBool(CtxReplayed) || c.GetBool(CtxIdemRejected) {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		outcome := "OK"
		if code := c.GetString(response.ErrorCodeKey); code != "" {
			outcome = code
		} else if status := c.Writer.Status(); status >= http.StatusBadRequest {
			outcome = strconv.Itoa(status)
		}

		account := auditAccount(c)
		var resourceID string
		if account != nil {
			resourceID = strconv.FormatInt(*account, 10)
		}

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:            uuid.New(),
			AccountNumber: account,
			Action:        action,
			ResourceType:  resourceType,
			ResourceID:    resourceID,
			Outcome:       outcome,
			RequestID:     c.GetString(response.RequestIDKey),
			IPAddress:     c.ClientIP(),
			CreatedAt:     time.Now().UTC(),
		})
	}
}

func auditAccount(c *gin.Context) *int64 {
	if n, err := strconv.ParseInt(c.Param("number"), 10, 64); err == nil {
		return &n
	}
	if v, ok := c.Get(CtxAccountNumber); ok {
		if n, ok := v.(int64); ok {
			return &n
		}
	}
	return nil
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/accounts":
		return domain.AuditActionCreateAccount, "account"
	case "/api/v1/accounts/:number/deposit":
		return domain.AuditActionDeposit, "account"
	case "/api/v1/accounts/:number/withdraw":
		return domain.AuditActionWithdraw, "account"
	case "/api/v1/accounts/:number/loan":
		return domain.AuditActionApplyLoan, "loan"
	case "/api/v1/accounts/:number/loan/payments":
		return domain.AuditActionPayLoan, "loan"
	case "/api/v1/transfers":
		return domain.AuditActionTransfer, "transfer"
	}
	return "", ""
}
