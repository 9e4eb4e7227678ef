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

// ClientHandler serves CRUD for the banks/NBFCs verification work is done
// for.
type ClientHandler struct {
	Clients *repository.ClientRepo
}

func NewClientHandler(clients *repository.ClientRepo) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

type clientReq struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	ContactEmail  string `json:"contactEmail"`
	ContactPhone  string `json:"contactPhone"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"isActive"`
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apierror.Validation("name is required")
	}

	client := &model.Client{
		Name:          name,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		ContactEmail:  strings.TrimSpace(req.ContactEmail),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		Address:       strings.TrimSpace(req.Address),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Clients.Create(ctx, client); err != nil {
		return repoError(err, "client not found")
	}
	return response.JSON(c, 201, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apierror.Validation("name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	client, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "client not found")
	}
	client.Name = name
	client.ContactPerson = strings.TrimSpace(req.ContactPerson)
	client.ContactEmail = strings.TrimSpace(req.ContactEmail)
	client.ContactPhone = strings.TrimSpace(req.ContactPhone)
	client.Address = strings.TrimSpace(req.Address)
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	if err := h.Clients.Update(ctx, &client); err != nil {
		return repoError(err, "client not found")
	}
	return response.JSON(c, 200, client)
}

func (h *ClientHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	client, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "client not found")
	}
	return response.JSON(c, 200, client)
}

func (h *ClientHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	clients, err := h.Clients.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": clients, "limit": limit, "offset": offset})
}
