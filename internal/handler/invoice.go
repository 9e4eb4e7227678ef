package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/audit"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// InvoiceHandler generates and lists client invoices from completed cases.
type InvoiceHandler struct {
	Invoices *repository.InvoiceRepo
	Cases    *repository.CaseRepo
	Clients  *repository.ClientRepo
	Audit    *audit.Recorder
}

func NewInvoiceHandler(invoices *repository.InvoiceRepo, cases *repository.CaseRepo, clients *repository.ClientRepo, rec *audit.Recorder) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices, Cases: cases, Clients: clients, Audit: rec}
}

type generateInvoiceReq struct {
	ClientID    uint64 `json:"clientId"`
	PeriodStart string `json:"periodStart"` // YYYY-MM-DD inclusive
	PeriodEnd   string `json:"periodEnd"`   // YYYY-MM-DD exclusive
}

// Generate creates an invoice covering the client's completed cases in the
// period. Totals come from one aggregate query joining product rates.
func (h *InvoiceHandler) Generate(c echo.Context) error {
	var req generateInvoiceReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	if req.ClientID == 0 {
		return apierror.Validation("clientId is required")
	}
	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return apierror.Validation("periodStart must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return apierror.Validation("periodEnd must be YYYY-MM-DD")
	}
	if !end.After(start) {
		return apierror.Validation("periodEnd must be after periodStart")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Clients.GetByID(ctx, req.ClientID); err != nil {
		return repoError(err, "client not found")
	}
	count, amount, err := h.Cases.CompletedTotals(ctx, req.ClientID, start, end)
	if err != nil {
		return err
	}
	if count == 0 {
		return apierror.Validation("no completed cases in period")
	}

	inv := &model.Invoice{
		InvoiceNumber: newInvoiceNumber(req.ClientID, start),
		ClientID:      req.ClientID,
		PeriodStart:   start,
		PeriodEnd:     end,
		CaseCount:     count,
		AmountPaise:   amount,
		CreatedBy:     middleware.UserID(c),
	}
	if err := h.Invoices.Create(ctx, inv); err != nil {
		return repoError(err, "invoice not found")
	}

	h.Audit.Record(middleware.UserID(c), model.AuditInvoiceCreate, map[string]any{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"client_id":      inv.ClientID,
		"amount_paise":   inv.AmountPaise,
	})
	return response.JSON(c, 201, inv)
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	inv, err := h.Invoices.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "invoice not found")
	}
	return response.JSON(c, 200, inv)
}

func (h *InvoiceHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	var clientID uint64
	if raw := c.QueryParam("clientId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apierror.Validation("invalid clientId")
		}
		clientID = id
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	invoices, err := h.Invoices.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": invoices, "limit": limit, "offset": offset})
}

// newInvoiceNumber builds a deterministic-looking number per client and
// period start, e.g. INV-000042-202608.
func newInvoiceNumber(clientID uint64, start time.Time) string {
	return fmt.Sprintf("INV-%06d-%s", clientID, start.Format("200601"))
}
