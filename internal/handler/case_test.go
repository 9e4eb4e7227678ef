package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/audit"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/queue"
	"github.com/veriflow/field-verification-api/internal/repository"
)

type caseFixture struct {
	h    *CaseHandler
	mock sqlmock.Sqlmock
	e    *echo.Echo
}

func newCaseFixture(t *testing.T) *caseFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)

	logger := zerolog.Nop()
	rec := audit.NewRecorder(repository.NewAuditRepo(db), logger)
	h := NewCaseHandler(
		repository.NewCaseRepo(db),
		repository.NewUserRepo(db),
		repository.NewClientRepo(db),
		repository.NewProductRepo(db),
		rec,
		queue.NewPublisher(logger),
	)

	e := echo.New()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(logger)

	t.Cleanup(func() {
		rec.Drain()
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &caseFixture{h: h, mock: mock, e: e}
}

// invoke runs a handler against POST-style JSON input with :id bound and the
// given identity in context.
func (f *caseFixture) invoke(caseID, body string, userID uint64, role model.Role, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(caseID)
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
	if err := handler(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func storedCaseRows(id uint64, status string, assignedTo uint64) *sqlmock.Rows {
	now := time.Now()
	var assigned any
	if assignedTo != 0 {
		assigned = assignedTo
	}
	return sqlmock.NewRows([]string{
		"id", "case_number", "client_id", "product_id", "subject_name",
		"subject_phone", "subject_address", "status", "assigned_to",
		"remarks", "created_by", "created_at", "updated_at",
	}).AddRow(id, "VF-1A2B3C4D", 1, 2, "S Nair", "", "12 MG Road",
		status, assigned, "", 1, now, now)
}

func TestAssignMissingCaseIsNotFound(t *testing.T) {
	f := newCaseFixture(t)

	f.mock.ExpectQuery("FROM users").
		WillReturnRows(activeUserRows(9, "ravi.kumar", "$2a$12$hash", "FIELD"))
	f.mock.ExpectExec("UPDATE cases SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectQuery("FROM cases").
		WillReturnError(sql.ErrNoRows)

	rec := f.invoke("12", `{"userId":9}`, 1, model.RoleManager, f.h.Assign)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apierror.CodeNotFound)
}

func TestAssignClaimedCaseIsConflict(t *testing.T) {
	f := newCaseFixture(t)

	f.mock.ExpectQuery("FROM users").
		WillReturnRows(activeUserRows(9, "ravi.kumar", "$2a$12$hash", "FIELD"))
	f.mock.ExpectExec("UPDATE cases SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectQuery("FROM cases").
		WillReturnRows(storedCaseRows(12, "ASSIGNED", 4))

	rec := f.invoke("12", `{"userId":9}`, 1, model.RoleManager, f.h.Assign)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "case is not pending")
}

func TestUpdateStatusOtherAgentForbidden(t *testing.T) {
	f := newCaseFixture(t)

	f.mock.ExpectQuery("FROM cases").
		WillReturnRows(storedCaseRows(12, "ASSIGNED", 4))

	rec := f.invoke("12", `{"status":"IN_PROGRESS"}`, 9, model.RoleField, f.h.UpdateStatus)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), apierror.CodeForbidden)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newCaseFixture(t)

	f.mock.ExpectQuery("FROM cases").
		WillReturnRows(storedCaseRows(12, "COMPLETED", 9))

	rec := f.invoke("12", `{"status":"REJECTED"}`, 9, model.RoleField, f.h.UpdateStatus)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), apierror.CodeValidation)
}

func TestUpdateStatusRaceLosesWithConflict(t *testing.T) {
	f := newCaseFixture(t)

	// The read sees IN_PROGRESS, but by the time the guarded UPDATE runs a
	// competing request has moved the case, so zero rows match and the stale
	// write gets a 409 instead of overwriting the winner.
	f.mock.ExpectQuery("FROM cases").
		WillReturnRows(storedCaseRows(12, "IN_PROGRESS", 9))
	f.mock.ExpectExec("UPDATE cases SET status").
		WithArgs("REJECTED", "", uint64(12), uint64(9), "IN_PROGRESS").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := f.invoke("12", `{"status":"REJECTED"}`, 9, model.RoleField, f.h.UpdateStatus)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), apierror.CodeConflict)
}
