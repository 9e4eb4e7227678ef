package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

const productColumns = "id,client_id,name,category,rate_paise,is_active,created_at,updated_at"

// ProductRepo persists the verification products offered per client.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// Create inserts a product. (client_id, name) is unique.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (client_id, name, category, rate_paise) VALUES (?,?,?,?)",
		p.ClientID, p.Name, p.Category, p.RatePaise)
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
	*p = fresh
	return nil
}

// GetByID fetches a product by primary key.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.ClientID, &p.Name, &p.Category, &p.RatePaise,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// GetActiveForClient fetches an active product belonging to a client. Used
// when creating a case to validate the client/product pairing.
func (r *ProductRepo) GetActiveForClient(ctx context.Context, id, clientID uint64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? AND client_id=? AND is_active=1 LIMIT 1",
		id, clientID).
		Scan(&p.ID, &p.ClientID, &p.Name, &p.Category, &p.RatePaise,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// ListByClient returns a client's products ordered by name.
func (r *ProductRepo) ListByClient(ctx context.Context, clientID uint64, limit, offset int) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE client_id=? ORDER BY name LIMIT ? OFFSET ?",
		clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Category, &p.RatePaise,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
