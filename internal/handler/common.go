package handler // handler defines the HTTP handlers behind the router

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/repository"
)

// Pagination bounds shared by every list endpoint.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads limit/offset query parameters, clamping to the shared
// bounds.
func pageParams(c echo.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apierror.Validation("invalid id")
	}
	return id, nil
}

// repoError translates repository sentinels into API errors; anything
// unrecognized becomes INTERNAL_ERROR via the central handler.
func repoError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apierror.NotFound(notFoundMsg)
	case errors.Is(err, repository.ErrDuplicate):
		return apierror.Conflict("already exists")
	case errors.Is(err, repository.ErrForbidden):
		return apierror.Forbidden()
	default:
		return err
	}
}
