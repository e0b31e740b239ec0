package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory implementation of every repository port. WithinTx
// snapshots the state and restores it when fn fails, which gives the services
// the same all-or-nothing behaviour as a database transaction.
type memStore struct {
	mu        sync.Mutex
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	postings  []domain.LedgerPosting
	sequences map[string]int64
	invoices  map[string]domain.Invoice
	payments  []domain.Payment
	projects  map[string]domain.Project
	cashFlows []domain.CashFlowRecord
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[string]domain.Account{},
		entries:   map[string]domain.JournalEntry{},
		sequences: map[string]int64{},
		invoices:  map[string]domain.Invoice{},
		projects:  map[string]domain.Project{},
	}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Tx:            m,
		SequenceRepo:  m,
		AccountRepo:   m,
		JournalRepo:   m,
		InvoiceRepo:   m,
		ProjectRepo:   m,
		CashFlowRepo:  m,
		ReportingRepo: m,
	}
}

type memSnapshot struct {
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	postings  []domain.LedgerPosting
	sequences map[string]int64
	invoices  map[string]domain.Invoice
	payments  []domain.Payment
	projects  map[string]domain.Project
	cashFlows []domain.CashFlowRecord
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		accounts:  copyMap(m.accounts),
		entries:   copyMap(m.entries),
		postings:  append([]domain.LedgerPosting(nil), m.postings...),
		sequences: copyMap(m.sequences),
		invoices:  copyMap(m.invoices),
		payments:  append([]domain.Payment(nil), m.payments...),
		projects:  copyMap(m.projects),
		cashFlows: append([]domain.CashFlowRecord(nil), m.cashFlows...),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.accounts = s.accounts
	m.entries = s.entries
	m.postings = s.postings
	m.sequences = s.sequences
	m.invoices = s.invoices
	m.payments = s.payments
	m.projects = s.projects
	m.cashFlows = s.cashFlows
}

// --- TxRunner / SequenceRepository ---

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	m.mu.Lock()
	snap := m.snapshot()
	m.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		m.mu.Lock()
		m.restore(snap)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) NextSequenceInTx(_ context.Context, _ pgx.Tx, prefix string, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s-%d", prefix, year)
	m.sequences[key]++
	return m.sequences[key], nil
}

// --- AccountRepositoryFacade ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (m *memStore) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			a := acc
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Account{}
	for _, id := range accountIDs {
		if acc, ok := m.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memStore) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[string]bool{}
	for _, c := range codes {
		wanted[c] = true
	}
	out := map[string]domain.Account{}
	for _, acc := range m.accounts {
		if wanted[acc.Code] {
			out[acc.Code] = acc
		}
	}
	return out, nil
}

func (m *memStore) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Account{}
	for _, acc := range m.accounts {
		if filter.AccountType != nil && acc.AccountType != *filter.AccountType {
			continue
		}
		if filter.IsActive != nil && acc.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccountInTx(_ context.Context, _ pgx.Tx, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Balance = existing.Balance
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.accounts, accountID)
	return nil
}

func (m *memStore) CountJournalLines(_ context.Context, accountID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				n++
			}
		}
	}
	return n, nil
}

func (m *memStore) CountJournalLinesInTx(ctx context.Context, _ pgx.Tx, accountID string) (int64, error) {
	return m.CountJournalLines(ctx, accountID)
}

func (m *memStore) CountChildAccounts(_ context.Context, accountID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, acc := range m.accounts {
		if acc.ParentAccountID != nil && *acc.ParentAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindAccountsByIDsForUpdate(ctx context.Context, _ pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	return m.FindAccountsByIDs(ctx, accountIDs)
}

func (m *memStore) UpdateAccountBalancesInTx(_ context.Context, _ pgx.Tx, deltas map[string]decimal.Decimal, userID string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, delta := range deltas {
		acc, ok := m.accounts[id]
		if !ok {
			return apperrors.ErrNotFound
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.LastUpdatedAt = updatedAt
		acc.LastUpdatedBy = userID
		m.accounts[id] = acc
	}
	return nil
}

// --- JournalRepositoryFacade ---

func (m *memStore) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) ListEntries(_ context.Context, filter domain.JournalEntryFilter, limit int, _ *string) ([]domain.JournalEntry, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.JournalEntry{}
	for _, e := range m.entries {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.SourceType != nil && e.SourceType != *filter.SourceType {
			continue
		}
		e.Lines = nil
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryNumber > out[j].EntryNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (m *memStore) ListPostingsByAccount(_ context.Context, accountID string, limit int, _ *string) ([]domain.LedgerPosting, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.LedgerPosting{}
	for i := len(m.postings) - 1; i >= 0 && len(out) < limit; i-- {
		if m.postings[i].AccountID == accountID {
			out = append(out, m.postings[i])
		}
	}
	return out, nil, nil
}

func (m *memStore) SaveEntryInTx(_ context.Context, _ pgx.Tx, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.EntryNumber == entry.EntryNumber {
			return apperrors.ErrDuplicate
		}
	}
	entry.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *memStore) FindEntryByIDForUpdate(ctx context.Context, _ pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	return m.FindEntryByID(ctx, entryID)
}

func (m *memStore) UpdateEntryStatusInTx(_ context.Context, _ pgx.Tx, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.entries[entry.EntryID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Status = entry.Status
	existing.ApprovedAt = entry.ApprovedAt
	existing.ApprovedBy = entry.ApprovedBy
	existing.RejectedAt = entry.RejectedAt
	existing.RejectionReason = entry.RejectionReason
	existing.LastUpdatedAt = entry.LastUpdatedAt
	existing.LastUpdatedBy = entry.LastUpdatedBy
	m.entries[entry.EntryID] = existing
	return nil
}

func (m *memStore) SavePostingsInTx(_ context.Context, _ pgx.Tx, postings []domain.LedgerPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings = append(m.postings, postings...)
	return nil
}

// --- InvoiceRepositoryFacade ---

func (m *memStore) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &inv, nil
}

func (m *memStore) ListInvoices(_ context.Context, filter domain.InvoiceFilter, limit int, offset int) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Invoice{}
	for _, inv := range m.invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if filter.InvoiceType != nil && inv.InvoiceType != *filter.InvoiceType {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	if offset >= len(out) {
		return []domain.Invoice{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListPaymentsByInvoice(_ context.Context, invoiceID string) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SaveInvoiceInTx(_ context.Context, _ pgx.Tx, invoice domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == invoice.InvoiceNumber {
			return apperrors.ErrDuplicate
		}
	}
	m.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (m *memStore) FindInvoiceByIDForUpdate(ctx context.Context, _ pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	return m.FindInvoiceByID(ctx, invoiceID)
}

func (m *memStore) UpdateInvoiceInTx(_ context.Context, _ pgx.Tx, invoice domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[invoice.InvoiceID]; !ok {
		return apperrors.ErrNotFound
	}
	m.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (m *memStore) SavePaymentInTx(_ context.Context, _ pgx.Tx, payment domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *memStore) SumPaymentsInTx(_ context.Context, _ pgx.Tx, invoiceID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// --- ProjectRepositoryFacade ---

func (m *memStore) FindProjectByID(_ context.Context, projectID string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) ListProjects(_ context.Context, _ domain.ProjectFilter, _ int, _ int) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Project{}
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) SaveProject(_ context.Context, project domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Code == project.Code {
			return apperrors.ErrDuplicate
		}
	}
	m.projects[project.ProjectID] = project
	return nil
}

func (m *memStore) FindProjectByIDForUpdate(ctx context.Context, _ pgx.Tx, projectID string) (*domain.Project, error) {
	return m.FindProjectByID(ctx, projectID)
}

func (m *memStore) UpdateProjectInTx(_ context.Context, _ pgx.Tx, project domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ProjectID] = project
	return nil
}

// --- CashFlowRepository ---

func (m *memStore) SaveCashFlow(ctx context.Context, record domain.CashFlowRecord) error {
	return m.SaveCashFlowInTx(ctx, nil, record)
}

func (m *memStore) SaveCashFlowInTx(_ context.Context, _ pgx.Tx, record domain.CashFlowRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cashFlows = append(m.cashFlows, record)
	return nil
}

func (m *memStore) ListCashFlows(_ context.Context, from, to *time.Time) ([]domain.CashFlowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CashFlowRecord{}
	for _, r := range m.cashFlows {
		if from != nil && r.FlowDate.Before(*from) {
			continue
		}
		if to != nil && r.FlowDate.After(*to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// --- ReportingRepository ---

func (m *memStore) SumPostingsByAccount(_ context.Context, asOf *time.Time) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]decimal.Decimal{}
	for _, p := range m.postings {
		if asOf != nil && m.entries[p.EntryID].EntryDate.After(*asOf) {
			continue
		}
		out[p.AccountID] = out[p.AccountID].Add(p.Delta)
	}
	return out, nil
}

func (m *memStore) SumApprovedLinesByAccount(_ context.Context) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]decimal.Decimal{}
	for _, e := range m.entries {
		if e.Status != domain.JournalApproved {
			continue
		}
		for _, l := range e.Lines {
			acc := m.accounts[l.AccountID]
			if acc.AccountType.IsDebitNormal() {
				out[l.AccountID] = out[l.AccountID].Add(l.Debit).Sub(l.Credit)
			} else {
				out[l.AccountID] = out[l.AccountID].Add(l.Credit).Sub(l.Debit)
			}
		}
	}
	return out, nil
}

// --- helpers for assertions ---

func (m *memStore) balanceOf(code string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			return acc.Balance
		}
	}
	return decimal.Zero
}

func (m *memStore) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *memStore) paymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}
