package dto

import (
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit or credit line of a manual entry.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required,uuid"`
	Debit       decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit      decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Description string          `json:"description" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to create a journal entry.
// AutoApprove skips the review queue and applies balances immediately.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                  `json:"entryDate" binding:"required"`
	Description string                     `json:"description" binding:"required,max=500"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	AutoApprove bool                       `json:"autoApprove"`
}

// RejectJournalEntryRequest carries the reviewer's reason.
type RejectJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryNumber     string                `json:"entryNumber"`
	EntryDate       time.Time             `json:"entryDate"`
	Description     string                `json:"description"`
	Status          domain.JournalStatus  `json:"status"`
	SourceType      domain.SourceType     `json:"sourceType"`
	SourceID        *string               `json:"sourceID,omitempty"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	ApprovedAt      *time.Time            `json:"approvedAt,omitempty"`
	ApprovedBy      *string               `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time            `json:"rejectedAt,omitempty"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	res := JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		Status:          e.Status,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		TotalAmount:     e.TotalAmount,
		ApprovedAt:      e.ApprovedAt,
		ApprovedBy:      e.ApprovedBy,
		RejectedAt:      e.RejectedAt,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		res.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			res.Lines[i] = JournalLineResponse{
				LineID:      l.LineID,
				LineNumber:  l.LineNumber,
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			}
		}
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT PENDING APPROVED REJECTED"`
	SourceType string     `form:"sourceType" binding:"omitempty,oneof=MANUAL INVOICE PAYMENT PROJECT INVOICE_CANCELLATION"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken  *string    `form:"nextToken"`
}

// ToFilter converts query parameters to a domain filter.
func (p ListJournalEntriesParams) ToFilter() domain.JournalEntryFilter {
	filter := domain.JournalEntryFilter{From: p.From, To: p.To}
	if p.Status != "" {
		s := domain.JournalStatus(p.Status)
		filter.Status = &s
	}
	if p.SourceType != "" {
		st := domain.SourceType(p.SourceType)
		filter.SourceType = &st
	}
	return filter
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ListPostingsParams defines query parameters for an account's posting history.
type ListPostingsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListPostingsResponse wraps a page of ledger postings.
type ListPostingsResponse struct {
	Postings  []domain.LedgerPosting `json:"postings"`
	NextToken *string                `json:"nextToken,omitempty"`
}
