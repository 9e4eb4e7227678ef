package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// CommissionHandler manages field-agent payouts.
type CommissionHandler struct {
	Commissions *repository.CommissionRepo
	Cases       *repository.CaseRepo
}

func NewCommissionHandler(commissions *repository.CommissionRepo, cases *repository.CaseRepo) *CommissionHandler {
	return &CommissionHandler{Commissions: commissions, Cases: cases}
}

type createCommissionReq struct {
	CaseID      uint64 `json:"caseId"`
	AmountPaise int64  `json:"amountPaise"`
}

// Create records a payout for the agent who completed a case. The case must
// be COMPLETED and assigned; the unique (user, case) index stops double
// payouts.
func (h *CommissionHandler) Create(c echo.Context) error {
	var req createCommissionReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	if req.CaseID == 0 {
		return apierror.Validation("caseId is required")
	}
	if req.AmountPaise <= 0 {
		return apierror.Validation("amountPaise must be positive")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, req.CaseID)
	if err != nil {
		return repoError(err, "case not found")
	}
	if cs.Status != model.CaseCompleted || cs.AssignedTo == 0 {
		return apierror.Validation("case is not completed")
	}

	com := &model.Commission{
		UserID:      cs.AssignedTo,
		CaseID:      cs.ID,
		AmountPaise: req.AmountPaise,
	}
	if err := h.Commissions.Create(ctx, com); err != nil {
		return repoError(err, "commission not found")
	}
	return response.JSON(c, 201, com)
}

// List returns commissions. Field agents see only their own rows; managers
// see everything.
func (h *CommissionHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	var userID uint64
	if middleware.UserRole(c) == model.RoleField {
		userID = middleware.UserID(c)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	commissions, err := h.Commissions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": commissions, "limit": limit, "offset": offset})
}

// MarkPaid settles one commission.
func (h *CommissionHandler) MarkPaid(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Commissions.MarkPaid(ctx, id); err != nil {
		return repoError(err, "commission not found or already paid")
	}
	com, err := h.Commissions.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "commission not found")
	}
	return response.JSON(c, 200, com)
}
