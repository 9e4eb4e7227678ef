package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veriflow/field-verification-api/internal/model"
)

const caseColumns = "id,case_number,client_id,product_id,subject_name,subject_phone,subject_address,status,assigned_to,remarks,created_by,created_at,updated_at"

// CaseRepo persists verification cases.
type CaseRepo struct{ DB *sql.DB }

func NewCaseRepo(db *sql.DB) *CaseRepo { return &CaseRepo{DB: db} }

// CaseFilter narrows List results. Zero values mean "no filter".
type CaseFilter struct {
	Status     model.CaseStatus
	ClientID   uint64
	AssignedTo uint64
	Limit      int
	Offset     int
}

// Create inserts a case in PENDING state and fills in the generated id,
// case number and timestamps.
func (r *CaseRepo) Create(ctx context.Context, c *model.Case) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cases (case_number, client_id, product_id, subject_name, subject_phone, subject_address, status, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		c.CaseNumber, c.ClientID, c.ProductID, c.SubjectName, c.SubjectPhone,
		c.SubjectAddress, string(model.CasePending), c.CreatedBy)
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

// GetByID fetches a case by primary key.
func (r *CaseRepo) GetByID(ctx context.Context, id uint64) (model.Case, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id=? LIMIT 1", id))
}

// List returns cases newest first, narrowed by the filter.
func (r *CaseRepo) List(ctx context.Context, f CaseFilter) ([]model.Case, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, string(f.Status))
	}
	if f.ClientID != 0 {
		where = append(where, "client_id=?")
		args = append(args, f.ClientID)
	}
	if f.AssignedTo != 0 {
		where = append(where, "assigned_to=?")
		args = append(args, f.AssignedTo)
	}
	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf("SELECT %s FROM cases WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?",
		caseColumns, strings.Join(where, " AND "))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []model.Case{}
	for rows.Next() {
		c, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Assign moves a PENDING case to ASSIGNED for the given field user. The
// status guard in the WHERE clause makes concurrent assignments of the same
// case resolve to exactly one winner.
func (r *CaseRepo) Assign(ctx context.Context, caseID, fieldUserID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cases SET status=?, assigned_to=?, updated_at=NOW() WHERE id=? AND status=?",
		string(model.CaseAssigned), fieldUserID, caseID, string(model.CasePending))
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

// UpdateStatus moves a case from one status to another for the assigned
// agent. Both guards live in the WHERE clause: assigned_to stops a stolen
// case id from being moved by another agent, and the status precondition
// makes two concurrent updates resolve to exactly one winner, the same way
// Assign claims a PENDING case. Zero rows means the case moved between the
// caller's read and this write.
func (r *CaseRepo) UpdateStatus(ctx context.Context, caseID, agentID uint64, from, to model.CaseStatus, remarks string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cases SET status=?, remarks=?, updated_at=NOW() WHERE id=? AND assigned_to=? AND status=?",
		string(to), remarks, caseID, agentID, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// CountByStatus returns case counts grouped by status for the dashboard.
// When assignedTo is nonzero only that agent's cases are counted.
func (r *CaseRepo) CountByStatus(ctx context.Context, assignedTo uint64) (map[model.CaseStatus]int, error) {
	query := "SELECT status, COUNT(*) FROM cases GROUP BY status"
	args := []any{}
	if assignedTo != 0 {
		query = "SELECT status, COUNT(*) FROM cases WHERE assigned_to=? GROUP BY status"
		args = append(args, assignedTo)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.CaseStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.CaseStatus(status)] = n
	}
	return counts, rows.Err()
}

// CompletedTotals sums the completed cases for a client in a period,
// joining product rates for the billable amount. Used by invoice
// generation.
func (r *CaseRepo) CompletedTotals(ctx context.Context, clientID uint64, start, end time.Time) (count int, amountPaise int64, err error) {
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(c.id), COALESCE(SUM(p.rate_paise),0)
		 FROM cases c JOIN products p ON p.id=c.product_id
		 WHERE c.client_id=? AND c.status=? AND c.updated_at>=? AND c.updated_at<?`,
		clientID, string(model.CaseCompleted), start, end).Scan(&count, &amountPaise)
	return count, amountPaise, err
}

func (r *CaseRepo) scanOne(row interface{ Scan(...any) error }) (model.Case, error) {
	var c model.Case
	var status string
	var phone, remarks sql.NullString
	var assigned sql.NullInt64
	err := row.Scan(&c.ID, &c.CaseNumber, &c.ClientID, &c.ProductID, &c.SubjectName,
		&phone, &c.SubjectAddress, &status, &assigned, &remarks, &c.CreatedBy,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Case{}, ErrNotFound
	}
	if err != nil {
		return model.Case{}, err
	}
	c.Status = model.CaseStatus(status)
	c.SubjectPhone = phone.String
	c.Remarks = remarks.String
	if assigned.Valid {
		c.AssignedTo = uint64(assigned.Int64)
	}
	return c, nil
}
