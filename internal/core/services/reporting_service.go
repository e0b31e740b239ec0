package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	cashFlowRepo  portsrepo.CashFlowRepository
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(accountRepo portsrepo.AccountReader, cashFlowRepo portsrepo.CashFlowRepository, reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{
		accountRepo:   accountRepo,
		cashFlowRepo:  cashFlowRepo,
		reportingRepo: reportingRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) activeAccounts(ctx context.Context) ([]domain.Account, error) {
	active := true
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{IsActive: &active})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for report")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func addTo(section *domain.ReportSection, acc domain.Account) {
	section.Accounts = append(section.Accounts, domain.AccountAmount{
		AccountID: acc.AccountID,
		Code:      acc.Code,
		Name:      acc.Name,
		Amount:    acc.Balance,
	})
	section.Total = section.Total.Add(acc.Balance)
}

func emptySection() domain.ReportSection {
	return domain.ReportSection{Accounts: []domain.AccountAmount{}, Total: decimal.Zero}
}

// GetBalanceSheet checks Assets = Liabilities + Equity + NetIncome. Net income
// is included because revenue and expense accounts are never closed into equity.
func (s *reportingService) GetBalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error) {
	accounts, err := s.activeAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if asOf != nil {
		sums, err := s.reportingRepo.SumPostingsByAccount(ctx, asOf)
		if err != nil {
			s.LogError(ctx, err, "Failed to rebuild balances from postings", slog.String("as_of", asOf.Format(time.DateOnly)))
			return nil, fmt.Errorf("failed to rebuild balances: %w", err)
		}
		for i := range accounts {
			accounts[i].Balance = sums[accounts[i].AccountID]
		}
	}

	report := &domain.BalanceSheetReport{
		AsOf:                asOf,
		CurrentAssets:       emptySection(),
		FixedAssets:         emptySection(),
		CurrentLiabilities:  emptySection(),
		LongTermLiabilities: emptySection(),
		Equity:              emptySection(),
	}
	revenue, expenses := decimal.Zero, decimal.Zero
	for _, acc := range accounts {
		switch acc.AccountType {
		case domain.Asset:
			if accounting.IsCurrentAsset(acc) {
				addTo(&report.CurrentAssets, acc)
			} else {
				addTo(&report.FixedAssets, acc)
			}
		case domain.Liability:
			if accounting.IsCurrentLiability(acc) {
				addTo(&report.CurrentLiabilities, acc)
			} else {
				addTo(&report.LongTermLiabilities, acc)
			}
		case domain.Equity:
			addTo(&report.Equity, acc)
		case domain.Revenue:
			revenue = revenue.Add(acc.Balance)
		case domain.Expense:
			expenses = expenses.Add(acc.Balance)
		}
	}

	report.TotalAssets = report.CurrentAssets.Total.Add(report.FixedAssets.Total)
	report.TotalLiabilities = report.CurrentLiabilities.Total.Add(report.LongTermLiabilities.Total)
	report.TotalEquity = report.Equity.Total
	report.NetIncome = revenue.Sub(expenses)
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity).Add(report.NetIncome)
	report.IsBalanced = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity).Abs().LessThan(domain.BalanceTolerance)

	s.LogInfo(ctx, "Balance sheet generated",
		slog.Int("account_count", len(accounts)),
		slog.Bool("is_balanced", report.IsBalanced))
	return report, nil
}

// GetProfitLoss uses all-time balances; the requested period is echoed only.
func (s *reportingService) GetProfitLoss(ctx context.Context, start, end *time.Time) (*domain.ProfitLossReport, error) {
	if err := checkPeriod(start, end); err != nil {
		return nil, err
	}
	accounts, err := s.activeAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.ProfitLossReport{
		PeriodStart:       start,
		PeriodEnd:         end,
		Revenue:           emptySection(),
		CostOfGoodsSold:   emptySection(),
		OperatingExpenses: emptySection(),
	}
	for _, acc := range accounts {
		switch acc.AccountType {
		case domain.Revenue:
			addTo(&report.Revenue, acc)
		case domain.Expense:
			if accounting.IsCostOfGoodsSold(acc) {
				addTo(&report.CostOfGoodsSold, acc)
			} else {
				addTo(&report.OperatingExpenses, acc)
			}
		}
	}

	report.GrossProfit = report.Revenue.Total.Sub(report.CostOfGoodsSold.Total)
	report.TotalExpenses = report.CostOfGoodsSold.Total.Add(report.OperatingExpenses.Total)
	report.NetIncome = report.Revenue.Total.Sub(report.TotalExpenses)

	s.LogInfo(ctx, "Profit and loss report generated", slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

// GetCashFlowStatement sums the cash-flow log, not the account registry.
func (s *reportingService) GetCashFlowStatement(ctx context.Context, start, end *time.Time) (*domain.CashFlowStatement, error) {
	if err := checkPeriod(start, end); err != nil {
		return nil, err
	}
	records, err := s.cashFlowRepo.ListCashFlows(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash flows for statement")
		return nil, fmt.Errorf("failed to list cash flows: %w", err)
	}

	totals := make(map[domain.CashFlowCategory]*domain.CashFlowCategoryTotal, len(domain.CashFlowCategories))
	stmt := &domain.CashFlowStatement{
		PeriodStart: start,
		PeriodEnd:   end,
		Categories:  make([]domain.CashFlowCategoryTotal, len(domain.CashFlowCategories)),
	}
	for i, c := range domain.CashFlowCategories {
		stmt.Categories[i] = domain.CashFlowCategoryTotal{Category: c}
		totals[c] = &stmt.Categories[i]
	}

	for _, r := range records {
		t, ok := totals[r.Category]
		if !ok {
			s.LogDebug(ctx, "Skipping cash flow with unknown category", slog.String("cash_flow_id", r.CashFlowID))
			continue
		}
		if r.FlowType == domain.CashOutflow {
			t.Outflows = t.Outflows.Add(r.Amount)
			stmt.TotalOutflows = stmt.TotalOutflows.Add(r.Amount)
		} else {
			t.Inflows = t.Inflows.Add(r.Amount)
			stmt.TotalInflows = stmt.TotalInflows.Add(r.Amount)
		}
		t.Net = t.Net.Add(r.SignedAmount())
	}
	stmt.NetCashFlow = stmt.TotalInflows.Sub(stmt.TotalOutflows)

	s.LogInfo(ctx, "Cash flow statement generated", slog.Int("record_count", len(records)))
	return stmt, nil
}

func (s *reportingService) GetTrialBalance(ctx context.Context) (*domain.TrialBalanceReport, error) {
	accounts, err := s.activeAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{Rows: make([]domain.TrialBalanceRow, 0, len(accounts))}
	for _, acc := range accounts {
		debit, credit := accounting.NormalSide(acc.AccountType, acc.Balance)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       debit,
			Credit:      credit,
		})
		report.TotalDebit = report.TotalDebit.Add(debit)
		report.TotalCredit = report.TotalCredit.Add(credit)
	}
	report.IsBalanced = domain.WithinTolerance(report.TotalDebit, report.TotalCredit)
	return report, nil
}

// ReconcileBalances replays history two ways: from ledger postings and from
// the lines of approved entries. Both must equal the cached balance.
func (s *reportingService) ReconcileBalances(ctx context.Context) (*domain.ReconciliationReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for reconciliation")
		return nil, err
	}
	postingSums, err := s.reportingRepo.SumPostingsByAccount(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum postings")
		return nil, err
	}
	lineSums, err := s.reportingRepo.SumApprovedLinesByAccount(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum approved lines")
		return nil, err
	}

	report := &domain.ReconciliationReport{
		CheckedAccounts: len(accounts),
		Discrepancies:   []domain.BalanceDiscrepancy{},
	}
	for _, acc := range accounts {
		fromPostings := postingSums[acc.AccountID]
		fromLines := lineSums[acc.AccountID]
		if acc.Balance.Equal(fromPostings) && acc.Balance.Equal(fromLines) {
			continue
		}
		report.Discrepancies = append(report.Discrepancies, domain.BalanceDiscrepancy{
			AccountID:      acc.AccountID,
			Code:           acc.Code,
			CachedBalance:  acc.Balance,
			PostingBalance: fromPostings,
			LineBalance:    fromLines,
		})
	}
	report.IsConsistent = len(report.Discrepancies) == 0

	if !report.IsConsistent {
		s.GetLogger(ctx).Warn("Ledger reconciliation found discrepancies", slog.Int("count", len(report.Discrepancies)))
	}
	return report, nil
}
