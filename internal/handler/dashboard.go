package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// DashboardHandler serves the case-count summary the mobile and web apps
// open on. Results are role-scoped: field agents see only their own
// assignments.
type DashboardHandler struct {
	Cases *repository.CaseRepo
}

func NewDashboardHandler(cases *repository.CaseRepo) *DashboardHandler {
	return &DashboardHandler{Cases: cases}
}

func (h *DashboardHandler) Summary(c echo.Context) error {
	var assignedTo uint64
	if middleware.UserRole(c) == model.RoleField {
		assignedTo = middleware.UserID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	counts, err := h.Cases.CountByStatus(ctx, assignedTo)
	if err != nil {
		return err
	}

	total := 0
	byStatus := map[string]int{}
	for _, s := range []model.CaseStatus{model.CasePending, model.CaseAssigned, model.CaseInProgress, model.CaseCompleted, model.CaseRejected} {
		byStatus[string(s)] = counts[s]
		total += counts[s]
	}
	return response.JSON(c, 200, echo.Map{"total": total, "byStatus": byStatus})
}
