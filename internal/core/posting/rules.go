// Package posting maps business events to balanced, two-line journal entry
// templates. Account selection is by configured chart-of-accounts code.
package posting

import (
	"fmt"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountCodes names the chart-of-accounts codes the rules post against.
type AccountCodes struct {
	Cash               string
	AccountsReceivable string
	AccountsPayable    string
	ServiceRevenue     string
	CostOfGoodsSold    string
}

// Rules builds posting templates for invoice, payment and project events.
type Rules struct {
	codes AccountCodes
}

// NewRules creates the rule set for the given account codes.
func NewRules(codes AccountCodes) *Rules {
	return &Rules{codes: codes}
}

// Codes returns the configured account codes.
func (r *Rules) Codes() AccountCodes {
	return r.codes
}

// Validate reports ErrMissingConfiguration when any code is blank.
func (c AccountCodes) Validate() error {
	named := map[string]string{
		"cash":                c.Cash,
		"accounts receivable": c.AccountsReceivable,
		"accounts payable":    c.AccountsPayable,
		"service revenue":     c.ServiceRevenue,
		"cost of goods sold":  c.CostOfGoodsSold,
	}
	for name, code := range named {
		if code == "" {
			return fmt.Errorf("%w: no account code configured for %s", apperrors.ErrMissingConfiguration, name)
		}
	}
	return nil
}

// All returns every configured code.
func (c AccountCodes) All() []string {
	return []string{c.Cash, c.AccountsReceivable, c.AccountsPayable, c.ServiceRevenue, c.CostOfGoodsSold}
}

func pair(debitCode, creditCode string, amount decimal.Decimal, description string) []domain.PostingLine {
	return []domain.PostingLine{
		{AccountCode: debitCode, Debit: amount, Credit: decimal.Zero, Description: description},
		{AccountCode: creditCode, Debit: decimal.Zero, Credit: amount, Description: description},
	}
}

func requirePositive(amount decimal.Decimal, what string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s amount must be positive, got %s", apperrors.ErrValidation, what, amount.String())
	}
	return nil
}

// InvoiceIssued: RECEIVABLE debits AR and credits service revenue; PAYABLE
// debits cost of goods sold and credits AP. Amount is the invoice total.
func (r *Rules) InvoiceIssued(inv domain.Invoice) (domain.PostingTemplate, error) {
	if err := requirePositive(inv.Total, "invoice"); err != nil {
		return domain.PostingTemplate{}, err
	}

	var lines []domain.PostingLine
	var description string
	switch inv.InvoiceType {
	case domain.Receivable:
		description = fmt.Sprintf("Invoice %s issued", inv.InvoiceNumber)
		lines = pair(r.codes.AccountsReceivable, r.codes.ServiceRevenue, inv.Total, description)
	case domain.Payable:
		description = fmt.Sprintf("Bill %s received", inv.InvoiceNumber)
		lines = pair(r.codes.CostOfGoodsSold, r.codes.AccountsPayable, inv.Total, description)
	default:
		return domain.PostingTemplate{}, fmt.Errorf("%w: unknown invoice type '%s'", apperrors.ErrValidation, inv.InvoiceType)
	}

	return domain.PostingTemplate{
		EntryDate:   inv.IssueDate,
		Description: description,
		SourceType:  domain.SourceInvoice,
		SourceID:    inv.InvoiceID,
		Lines:       lines,
	}, nil
}

// PaymentRecorded: a payment on a RECEIVABLE debits cash and credits AR; a
// payment on a PAYABLE debits AP and credits cash.
func (r *Rules) PaymentRecorded(inv domain.Invoice, pay domain.Payment) (domain.PostingTemplate, error) {
	if err := requirePositive(pay.Amount, "payment"); err != nil {
		return domain.PostingTemplate{}, err
	}

	var lines []domain.PostingLine
	var description string
	switch inv.InvoiceType {
	case domain.Receivable:
		description = fmt.Sprintf("Payment %s received for invoice %s", pay.PaymentNumber, inv.InvoiceNumber)
		lines = pair(r.codes.Cash, r.codes.AccountsReceivable, pay.Amount, description)
	case domain.Payable:
		description = fmt.Sprintf("Payment %s made for bill %s", pay.PaymentNumber, inv.InvoiceNumber)
		lines = pair(r.codes.AccountsPayable, r.codes.Cash, pay.Amount, description)
	default:
		return domain.PostingTemplate{}, fmt.Errorf("%w: unknown invoice type '%s'", apperrors.ErrValidation, inv.InvoiceType)
	}

	return domain.PostingTemplate{
		EntryDate:   pay.PaymentDate,
		Description: description,
		SourceType:  domain.SourcePayment,
		SourceID:    pay.PaymentID,
		Lines:       lines,
	}, nil
}

// ProjectCompleted recognises the project budget as revenue: debit AR, credit
// service revenue. Callers invoke it only on the transition into COMPLETED.
func (r *Rules) ProjectCompleted(p domain.Project, completedAt time.Time) (domain.PostingTemplate, error) {
	if err := requirePositive(p.Budget, "project budget"); err != nil {
		return domain.PostingTemplate{}, err
	}

	description := fmt.Sprintf("Revenue recognised on completion of project %s", p.Code)
	return domain.PostingTemplate{
		EntryDate:   completedAt,
		Description: description,
		SourceType:  domain.SourceProject,
		SourceID:    p.ProjectID,
		Lines:       pair(r.codes.AccountsReceivable, r.codes.ServiceRevenue, p.Budget, description),
	}, nil
}

// InvoiceCancelled reverses the issuance posting of an unpaid invoice by
// swapping its debit and credit sides.
func (r *Rules) InvoiceCancelled(inv domain.Invoice, cancelledAt time.Time) (domain.PostingTemplate, error) {
	issued, err := r.InvoiceIssued(inv)
	if err != nil {
		return domain.PostingTemplate{}, err
	}

	description := fmt.Sprintf("Cancellation of %s", inv.InvoiceNumber)
	reversed := make([]domain.PostingLine, len(issued.Lines))
	for i, l := range issued.Lines {
		reversed[i] = domain.PostingLine{
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: description,
		}
	}

	return domain.PostingTemplate{
		EntryDate:   cancelledAt,
		Description: description,
		SourceType:  domain.SourceInvoiceCancellation,
		SourceID:    inv.InvoiceID,
		Lines:       reversed,
	}, nil
}
