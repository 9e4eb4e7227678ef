package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

const invoiceColumns = "id,invoice_number,client_id,period_start,period_end,case_count,amount_paise,created_by,created_at"

// InvoiceRepo persists invoices generated from completed cases.
type InvoiceRepo struct{ DB *sql.DB }

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{DB: db} }

// Create inserts an invoice with totals already computed by the handler.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO invoices (invoice_number, client_id, period_start, period_end, case_count, amount_paise, created_by) VALUES (?,?,?,?,?,?,?)",
		inv.InvoiceNumber, inv.ClientID, inv.PeriodStart, inv.PeriodEnd,
		inv.CaseCount, inv.AmountPaise, inv.CreatedBy)
	if err != nil {
		if mysqlDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*inv = fresh
	return nil
}

// GetByID fetches an invoice by primary key.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id=? LIMIT 1", id).
		Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.PeriodStart, &inv.PeriodEnd,
			&inv.CaseCount, &inv.AmountPaise, &inv.CreatedBy, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Invoice{}, ErrNotFound
	}
	return inv, err
}

// ListByClient returns a client's invoices newest first. clientID zero
// lists across all clients.
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID uint64, limit, offset int) ([]model.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices ORDER BY id DESC LIMIT ? OFFSET ?"
	args := []any{limit, offset}
	if clientID != 0 {
		query = "SELECT " + invoiceColumns + " FROM invoices WHERE client_id=? ORDER BY id DESC LIMIT ? OFFSET ?"
		args = []any{clientID, limit, offset}
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.PeriodStart,
			&inv.PeriodEnd, &inv.CaseCount, &inv.AmountPaise, &inv.CreatedBy, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
