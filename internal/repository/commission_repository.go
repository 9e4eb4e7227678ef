package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

const commissionColumns = "id,user_id,case_id,amount_paise,paid,created_at,updated_at"

// CommissionRepo persists field-agent payouts, one row per completed case.
type CommissionRepo struct{ DB *sql.DB }

func NewCommissionRepo(db *sql.DB) *CommissionRepo { return &CommissionRepo{DB: db} }

// Create inserts a commission row. (user_id, case_id) is unique so a case
// can only ever pay out once.
func (r *CommissionRepo) Create(ctx context.Context, c *model.Commission) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO commissions (user_id, case_id, amount_paise) VALUES (?,?,?)",
		c.UserID, c.CaseID, c.AmountPaise)
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
	c.ID = uint64(id)
	return nil
}

// ListByUser returns an agent's commissions newest first. userID zero lists
// across all agents (manager view).
func (r *CommissionRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Commission, error) {
	query := "SELECT " + commissionColumns + " FROM commissions ORDER BY id DESC LIMIT ? OFFSET ?"
	args := []any{limit, offset}
	if userID != 0 {
		query = "SELECT " + commissionColumns + " FROM commissions WHERE user_id=? ORDER BY id DESC LIMIT ? OFFSET ?"
		args = []any{userID, limit, offset}
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commissions := []model.Commission{}
	for rows.Next() {
		var c model.Commission
		if err := rows.Scan(&c.ID, &c.UserID, &c.CaseID, &c.AmountPaise,
			&c.Paid, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

// MarkPaid settles a single commission.
func (r *CommissionRepo) MarkPaid(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE commissions SET paid=1, updated_at=NOW() WHERE id=? AND paid=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a commission by primary key.
func (r *CommissionRepo) GetByID(ctx context.Context, id uint64) (model.Commission, error) {
	var c model.Commission
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.UserID, &c.CaseID, &c.AmountPaise, &c.Paid, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Commission{}, ErrNotFound
	}
	return c, err
}
