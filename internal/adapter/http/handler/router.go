package handler

import (
	"time"

	"bank-simulator/internal/adapter/http/middleware"
	"bank-simulator/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc        ports.LedgerService
	ReportingSvc     ports.ReportingService
	AuditSvc         ports.AuditService     // nil = audit logging disabled
	IdempotencyCache ports.IdempotencyCache // nil = Idempotency-Key ignored
	IdempotencyTTL   time.Duration
	RateLimitStore   ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers   []ports.HealthChecker
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return noop
		}
		rule, ok := rules[group]
		if !ok {
			return noop
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	idem := noop
	if deps.IdempotencyCache != nil {
		idem = middleware.Idempotency(deps.IdempotencyCache, deps.IdempotencyTTL, deps.Logger)
	}

	accountHandler := NewAccountHandler(deps.LedgerSvc, deps.ReportingSvc)
	loanHandler := NewLoanHandler(deps.LedgerSvc)
	transferHandler := NewTransferHandler(deps.LedgerSvc)
	reportHandler := NewReportHandler(deps.ReportingSvc, deps.AuditSvc)

	v1 := r.Group("/api/v1")

	accounts := v1.Group("/accounts")
	{
		accounts.POST("", rl("accounts_create"), idem, accountHandler.Create)
		accounts.GET("", rl("reads"), accountHandler.List)
		accounts.GET("/:number", rl("reads"), accountHandler.Details)
		accounts.GET("/:number/transactions", rl("reads"), accountHandler.History)
		accounts.POST("/:number/deposit", rl("mutations"), idem, accountHandler.Deposit)
		accounts.POST("/:number/withdraw", rl("mutations"), idem, accountHandler.Withdraw)
		accounts.GET("/:number/loan", rl("reads"), loanHandler.Get)
		accounts.POST("/:number/loan", rl("mutations"), idem, loanHandler.Apply)
		accounts.POST("/:number/loan/payments", rl("mutations"), idem, loanHandler.Pay)
	}

	v1.POST("/transfers", rl("transfers"), idem, transferHandler.Create)

	reports := v1.Group("/reports")
	{
		reports.GET("/loan-takers", rl("reports"), reportHandler.LoanTakers)
		reports.GET("/journal", rl("reports"), reportHandler.Journal)
		reports.GET("/summary", rl("reports"), reportHandler.Summary)
		reports.GET("/audit", rl("reports"), reportHandler.Audit)
	}

	v1.GET("/customers/:name/accounts", rl("reads"), reportHandler.AccountsByOwner)

	return r
}

func noop(c *gin.Context) { c.Next() }
