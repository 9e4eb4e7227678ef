package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

const clientColumns = "id,name,contact_person,contact_email,contact_phone,address,is_active,created_at,updated_at"

// ClientRepo persists the banks and NBFCs verification work is done for.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

// Create inserts a client. Names are unique across the table.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO clients (name, contact_person, contact_email, contact_phone, address) VALUES (?,?,?,?,?)",
		c.Name, c.ContactPerson, c.ContactEmail, c.ContactPhone, c.Address)
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
	*c = fresh
	return nil
}

// Update overwrites the mutable fields of a client.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE clients SET name=?, contact_person=?, contact_email=?, contact_phone=?, address=?, is_active=?, updated_at=NOW() WHERE id=?",
		c.Name, c.ContactPerson, c.ContactEmail, c.ContactPhone, c.Address, c.IsActive, c.ID)
	if err != nil {
		if mysqlDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	fresh, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = fresh
	return nil
}

// GetByID fetches a client by primary key.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (model.Client, error) {
	var c model.Client
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.ContactPerson, &c.ContactEmail, &c.ContactPhone,
			&c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Client{}, ErrNotFound
	}
	return c, err
}

// List returns clients ordered by name.
func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]model.Client, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.ContactEmail,
			&c.ContactPhone, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
