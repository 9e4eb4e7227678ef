package model

import "time"

// AuditAction is the closed vocabulary of security-relevant actions written
// to the audit trail.
type AuditAction string

const (
	AuditLogin          AuditAction = "LOGIN"
	AuditLogout         AuditAction = "LOGOUT"
	AuditDeviceRegister AuditAction = "DEVICE_REGISTER"
	AuditCaseCreate     AuditAction = "CASE_CREATE"
	AuditCaseAssign     AuditAction = "CASE_ASSIGN"
	AuditCaseStatus     AuditAction = "CASE_STATUS"
	AuditInvoiceCreate  AuditAction = "INVOICE_CREATE"
)

// AuditEntry is one append-only row in the `audit_log` table. Rows are
// never updated or deleted by request handling; ActorUserID is a weak
// reference so removing a user does not touch its audit history.
type AuditEntry struct {
	ID          string         `json:"id"`
	ActorUserID uint64         `json:"actorUserId"`
	Action      AuditAction    `json:"action"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
