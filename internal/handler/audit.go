package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// AuditHandler exposes the read side of the audit trail to administrators.
// There is deliberately no write, update or delete surface here.
type AuditHandler struct {
	Audit *repository.AuditRepo
}

func NewAuditHandler(repo *repository.AuditRepo) *AuditHandler {
	return &AuditHandler{Audit: repo}
}

func (h *AuditHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	entries, err := h.Audit.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": entries, "limit": limit, "offset": offset})
}
