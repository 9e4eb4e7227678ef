package model

import "time"

// Invoice mirrors the `invoices` table. One invoice bills a client for the
// cases completed inside [PeriodStart, PeriodEnd]; AmountPaise is the sum
// of the product rates of those cases at generation time.
type Invoice struct {
	ID            uint64    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ClientID      uint64    `json:"clientId"`
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
	CaseCount     int       `json:"caseCount"`
	AmountPaise   int64     `json:"amountPaise"`
	CreatedBy     uint64    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Commission mirrors the `commissions` table: a payout owed to a FIELD user
// for one completed case.
type Commission struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	CaseID      uint64    `json:"caseId"`
	AmountPaise int64     `json:"amountPaise"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attachment mirrors the `attachments` table. Bytes live on disk under the
// uploads directory keyed by StorageKey (a UUID); the row holds metadata
// only.
type Attachment struct {
	ID          uint64    `json:"id"`
	CaseID      uint64    `json:"caseId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	StorageKey  string    `json:"-"`
	UploadedBy  uint64    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
