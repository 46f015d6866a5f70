package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/core/ledger"
	"bank-simulator/internal/core/ports"
	"bank-simulator/internal/service"
	"bank-simulator/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		minBalance string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:    "demo",
		Short:  "run a scripted session against a fresh ledger",
		Long:   `Open two accounts, take and repay a loan, transfer between them and print the resulting reports.`,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			savingsMin, err := decimal.NewFromString(minBalance)
			if err != nil {
				return fmt.Errorf("invalid --savings-min: %w", err)
			}
			log := zerolog.Nop()
			if verbose {
				log = logger.NewWithWriter("debug", cmd.ErrOrStderr())
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), savingsMin, log)
		},
	}
	cmd.Flags().StringVar(&minBalance, "savings-min", "100", "minimum balance of savings accounts")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every ledger operation to stderr")
	return cmd
}

type demoReport struct {
	Accounts   []dto.AccountDetailsResponse `json:"accounts"`
	LoanTakers []dto.AccountResponse        `json:"loan_takers"`
	Summary    dto.SummaryResponse          `json:"summary"`
}

func runDemo(ctx context.Context, out io.Writer, savingsMin decimal.Decimal, log zerolog.Logger) error {
	l := ledger.New(savingsMin)
	ledgerSvc := service.NewLedgerService(l, log)
	reportingSvc := service.NewReportingService(l)

	steps := []func() error{
		func() error {
			_, err := ledgerSvc.CreateAccount(ctx, ports.CreateAccountRequest{Owner: "Alice", Number: 101, Type: "current", InitialBalance: decimal.NewFromInt(1000)})
			return err
		},
		func() error {
			_, err := ledgerSvc.CreateAccount(ctx, ports.CreateAccountRequest{Owner: "Bob", Number: 102, Type: "savings", InitialBalance: decimal.Zero})
			return err
		},
		func() error {
			_, err := ledgerSvc.ApplyLoan(ctx, 101, decimal.NewFromInt(500))
			return err
		},
		func() error {
			_, err := ledgerSvc.PayLoan(ctx, 101)
			return err
		},
		func() error {
			_, err := ledgerSvc.Transfer(ctx, ports.TransferRequest{From: 101, To: 102, Amount: decimal.NewFromInt(300)})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("demo step %d: %w", i+1, err)
		}
	}

	var report demoReport
	for _, number := range []int64{101, 102} {
		details, err := reportingSvc.AccountDetails(ctx, number)
		if err != nil {
			return err
		}
		report.Accounts = append(report.Accounts, dto.ToAccountDetailsResponse(details))
	}
	takers, err := reportingSvc.LoanTakers(ctx)
	if err != nil {
		return err
	}
	report.LoanTakers = dto.ToAccountResponses(takers).Items
	summary, err := reportingSvc.Summary(ctx)
	if err != nil {
		return err
	}
	report.Summary = dto.ToSummaryResponse(summary)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
