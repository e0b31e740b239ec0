package domain

import "time"

// AuditAction names the operation being audited.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditDelete  AuditAction = "DELETE"
	AuditSubmit  AuditAction = "SUBMIT"
	AuditApprove AuditAction = "APPROVE"
	AuditReject  AuditAction = "REJECT"
	AuditCancel  AuditAction = "CANCEL"
)

// AuditRecord is emitted for every ledger-affecting operation.
type AuditRecord struct {
	AuditID    string         `json:"auditID"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID"`
	Action     AuditAction    `json:"action"`
	ActorID    string         `json:"actorID"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Audited entity types.
const (
	EntityAccount      = "account"
	EntityJournalEntry = "journal_entry"
	EntityInvoice      = "invoice"
	EntityPayment      = "payment"
	EntityProject      = "project"
	EntityCashFlow     = "cash_flow"
)
