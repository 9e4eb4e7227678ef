package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/audit"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/queue"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// CaseHandler bundles dependencies for the verification case endpoints.
type CaseHandler struct {
	Cases     *repository.CaseRepo
	Users     *repository.UserRepo
	Clients   *repository.ClientRepo
	Products  *repository.ProductRepo
	Audit     *audit.Recorder
	Publisher *queue.Publisher
}

func NewCaseHandler(cases *repository.CaseRepo, users *repository.UserRepo, clients *repository.ClientRepo, products *repository.ProductRepo, rec *audit.Recorder, pub *queue.Publisher) *CaseHandler {
	return &CaseHandler{Cases: cases, Users: users, Clients: clients, Products: products, Audit: rec, Publisher: pub}
}

type createCaseReq struct {
	ClientID       uint64 `json:"clientId"`
	ProductID      uint64 `json:"productId"`
	SubjectName    string `json:"subjectName"`
	SubjectPhone   string `json:"subjectPhone"`
	SubjectAddress string `json:"subjectAddress"`
}

// Create opens a new PENDING case after validating the client/product
// pairing. Case numbers are generated here, not by the client.
func (h *CaseHandler) Create(c echo.Context) error {
	var req createCaseReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	req.SubjectName = strings.TrimSpace(req.SubjectName)
	req.SubjectAddress = strings.TrimSpace(req.SubjectAddress)
	if req.ClientID == 0 || req.ProductID == 0 {
		return apierror.Validation("clientId and productId are required")
	}
	if req.SubjectName == "" || req.SubjectAddress == "" {
		return apierror.Validation("subjectName and subjectAddress are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	client, err := h.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return repoError(err, "client not found")
	}
	if !client.IsActive {
		return apierror.Validation("client is inactive")
	}
	if _, err := h.Products.GetActiveForClient(ctx, req.ProductID, req.ClientID); err != nil {
		return repoError(err, "product not found for client")
	}

	cs := &model.Case{
		CaseNumber:     newCaseNumber(),
		ClientID:       req.ClientID,
		ProductID:      req.ProductID,
		SubjectName:    req.SubjectName,
		SubjectPhone:   strings.TrimSpace(req.SubjectPhone),
		SubjectAddress: req.SubjectAddress,
		CreatedBy:      middleware.UserID(c),
	}
	if err := h.Cases.Create(ctx, cs); err != nil {
		return repoError(err, "case not found")
	}

	h.Audit.Record(middleware.UserID(c), model.AuditCaseCreate, map[string]any{
		"case_id":     cs.ID,
		"case_number": cs.CaseNumber,
		"client_id":   cs.ClientID,
	})
	return response.JSON(c, 201, cs)
}

// Get returns one case. Field agents can only read cases assigned to them.
func (h *CaseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "case not found")
	}
	if middleware.UserRole(c) == model.RoleField && cs.AssignedTo != middleware.UserID(c) {
		return apierror.Forbidden()
	}
	return response.JSON(c, 200, cs)
}

// List returns cases narrowed by status/clientId/assignedTo query filters.
// Field agents always see only their own assignments regardless of the
// filters they send.
func (h *CaseHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	f := repository.CaseFilter{Limit: limit, Offset: offset}

	if raw := c.QueryParam("status"); raw != "" {
		status, ok := model.ParseCaseStatus(raw)
		if !ok {
			return apierror.Validation("unknown status")
		}
		f.Status = status
	}
	if raw := c.QueryParam("clientId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apierror.Validation("invalid clientId")
		}
		f.ClientID = id
	}
	if raw := c.QueryParam("assignedTo"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apierror.Validation("invalid assignedTo")
		}
		f.AssignedTo = id
	}
	if middleware.UserRole(c) == model.RoleField {
		f.AssignedTo = middleware.UserID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	cases, err := h.Cases.List(ctx, f)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": cases, "limit": limit, "offset": offset})
}

type assignCaseReq struct {
	UserID uint64 `json:"userId"`
}

// Assign hands a PENDING case to an active FIELD user and notifies their
// device through the broker. The assignment itself must succeed even when
// the broker is down, so publishing happens after the response state is
// settled and failures are only logged.
func (h *CaseHandler) Assign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req assignCaseReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return apierror.Validation("userId required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetActiveByRole(ctx, req.UserID, model.RoleField); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.Validation("userId is not an active field agent")
		}
		return err
	}
	if err := h.Cases.Assign(ctx, id, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Zero rows covers both a missing case and one already claimed;
			// re-fetch to tell a 404 from a 409.
			if _, err := h.Cases.GetByID(ctx, id); errors.Is(err, repository.ErrNotFound) {
				return apierror.NotFound("case not found")
			}
			return apierror.Conflict("case is not pending")
		}
		return err
	}
	cs, err := h.Cases.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "case not found")
	}

	h.Audit.Record(middleware.UserID(c), model.AuditCaseAssign, map[string]any{
		"case_id":     cs.ID,
		"assigned_to": req.UserID,
	})
	h.notify(queue.KindCaseAssigned, cs, req.UserID)

	return response.JSON(c, 200, cs)
}

type caseStatusReq struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// UpdateStatus applies a field agent's progress update, enforcing both the
// closed transition set and case ownership.
func (h *CaseHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req caseStatusReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	status, ok := model.ParseCaseStatus(req.Status)
	if !ok {
		return apierror.Validation("unknown status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "case not found")
	}
	agentID := middleware.UserID(c)
	if cs.AssignedTo != agentID {
		return apierror.Forbidden()
	}
	if !model.CanTransition(cs.Status, status) {
		return apierror.Validation("cannot move case from " + string(cs.Status) + " to " + string(status))
	}

	// The write re-checks the status read above, so a concurrent update
	// between the read and here loses with a 409 instead of jumping the
	// transition table.
	if err := h.Cases.UpdateStatus(ctx, id, agentID, cs.Status, status, strings.TrimSpace(req.Remarks)); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return apierror.Conflict("case was updated concurrently")
		}
		return repoError(err, "case not found")
	}
	cs, err = h.Cases.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "case not found")
	}

	h.Audit.Record(agentID, model.AuditCaseStatus, map[string]any{
		"case_id": cs.ID,
		"status":  string(status),
	})
	if status == model.CaseCompleted {
		h.notify(queue.KindCaseCompleted, cs, cs.CreatedBy)
	}

	return response.JSON(c, 200, cs)
}

// notify publishes a notification event on a detached goroutine so broker
// latency never holds up the response.
func (h *CaseHandler) notify(kind string, cs model.Case, targetUser uint64) {
	clientName := ""
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	if client, err := h.Clients.GetByID(ctx, cs.ClientID); err == nil {
		clientName = client.Name
	}
	ev := queue.NotificationEvent{
		Kind:        kind,
		CaseID:      cs.ID,
		CaseNumber:  cs.CaseNumber,
		ClientName:  clientName,
		SubjectName: cs.SubjectName,
		TargetUser:  targetUser,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = h.Publisher.Publish(pubCtx, ev) // best-effort; errors already logged
	}()
}

// newCaseNumber mints a readable unique case number like VF-1A2B3C4D.
func newCaseNumber() string {
	return "VF-" + strings.ToUpper(uuid.NewString()[:8])
}
