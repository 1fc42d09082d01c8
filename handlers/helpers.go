package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"office_records_go/middleware"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
)

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

// parseIDList parses a batch id payload.
type idListRequest struct {
	IDs []uint `json:"ids"`
}

// requireMutate enforces the access policy for a mutation against one
// office partition.
func requireMutate(c echo.Context, officeKey string) error {
	user := middleware.GetCurrentUser(c)
	if !services.MayMutate(user, officeKey) {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to modify this office")
	}
	return nil
}

// serviceError maps service sentinel errors onto HTTP responses.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
	case errors.Is(err, services.ErrTrashEntryNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Trash entry not found"})
	case errors.Is(err, services.ErrOfficeNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Office not found"})
	case errors.Is(err, services.ErrOfficeExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Office already exists"})
	case errors.Is(err, services.ErrOfficeNotEmpty):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Office still has records"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage failure"})
	}
}
