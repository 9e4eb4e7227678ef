package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// ProductHandler serves the verification products offered per client.
type ProductHandler struct {
	Products *repository.ProductRepo
	Clients  *repository.ClientRepo
}

func NewProductHandler(products *repository.ProductRepo, clients *repository.ClientRepo) *ProductHandler {
	return &ProductHandler{Products: products, Clients: clients}
}

type productReq struct {
	ClientID  uint64 `json:"clientId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	RatePaise int64  `json:"ratePaise"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.ClientID == 0 || req.Name == "" || req.Category == "" {
		return apierror.Validation("clientId, name and category are required")
	}
	if req.RatePaise <= 0 {
		return apierror.Validation("ratePaise must be positive")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Clients.GetByID(ctx, req.ClientID); err != nil {
		return repoError(err, "client not found")
	}
	p := &model.Product{
		ClientID:  req.ClientID,
		Name:      req.Name,
		Category:  req.Category,
		RatePaise: req.RatePaise,
	}
	if err := h.Products.Create(ctx, p); err != nil {
		return repoError(err, "product not found")
	}
	return response.JSON(c, 201, p)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "product not found")
	}
	return response.JSON(c, 200, p)
}

// ListByClient serves GET /clients/:id/products.
func (h *ProductHandler) ListByClient(c echo.Context) error {
	clientID, err := pathID(c)
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if _, err := h.Clients.GetByID(ctx, clientID); err != nil {
		return repoError(err, "client not found")
	}
	products, err := h.Products.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": products, "limit": limit, "offset": offset})
}
