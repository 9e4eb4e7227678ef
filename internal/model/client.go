package model

import "time"

// Client mirrors the `clients` table: a bank or NBFC that commissions
// verification work. Soft-disabled via IsActive rather than deleted so
// historical cases and invoices keep their references.
type Client struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Product mirrors the `products` table: one verification type offered to a
// client (address, employment, business, ...) at an agreed per-case rate in
// paise to avoid floating point money.
type Product struct {
	ID        uint64    `json:"id"`
	ClientID  uint64    `json:"clientId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	RatePaise int64     `json:"ratePaise"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
