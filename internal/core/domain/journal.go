package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	JournalDraft    JournalStatus = "DRAFT"
	JournalPending  JournalStatus = "PENDING"
	JournalApproved JournalStatus = "APPROVED"
	JournalRejected JournalStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s JournalStatus) IsTerminal() bool {
	return s == JournalApproved || s == JournalRejected
}

// CanTransitionTo reports whether an entry in status s may move to next.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	switch s {
	case JournalDraft:
		return next == JournalPending || next == JournalApproved || next == JournalRejected
	case JournalPending:
		return next == JournalApproved || next == JournalRejected
	}
	return false
}

// SourceType records which business event produced a journal entry.
type SourceType string

const (
	SourceManual              SourceType = "MANUAL"
	SourceInvoice             SourceType = "INVOICE"
	SourcePayment             SourceType = "PAYMENT"
	SourceProject             SourceType = "PROJECT"
	SourceInvoiceCancellation SourceType = "INVOICE_CANCELLATION"
)

// EntryNumberPrefix is the numbering prefix for journal entries.
const EntryNumberPrefix = "JE"

// JournalEntry is a balanced set of debit/credit lines recording one business event.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	Status          JournalStatus   `json:"status"`
	SourceType      SourceType      `json:"sourceType"`
	SourceID        *string         `json:"sourceID,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LedgerPosting is the append-only record of one balance mutation. Replaying
// postings in order reproduces every account balance.
type LedgerPosting struct {
	PostingID    string          `json:"postingID"`
	EntryID      string          `json:"entryID"`
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Delta        decimal.Decimal `json:"delta"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	PostedAt     time.Time       `json:"postedAt"`
}

// JournalEntryFilter narrows ListEntries. Nil fields are not applied.
type JournalEntryFilter struct {
	Status     *JournalStatus
	SourceType *SourceType
	From       *time.Time
	To         *time.Time
}

// PostingLine is one side of a system-generated posting, addressed by account code.
type PostingLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// PostingTemplate describes a system-generated, auto-approved journal entry
// before account codes are resolved against the registry.
type PostingTemplate struct {
	EntryDate   time.Time
	Description string
	SourceType  SourceType
	SourceID    string
	Lines       []PostingLine
}

// BalanceDiscrepancy reports an account whose cached balance differs from
// the sum of its ledger postings or approved journal lines.
type BalanceDiscrepancy struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	CachedBalance  decimal.Decimal `json:"cachedBalance"`
	PostingBalance decimal.Decimal `json:"postingBalance"`
	LineBalance    decimal.Decimal `json:"lineBalance"`
}
