package handlers

import (
	"net/http"
	"strings"

	"office_records_go/db"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
)

type officeRequest struct {
	Name string `json:"name"`
}

type deleteOfficeRequest struct {
	MoveTo string `json:"move_to"` // optional destination for the office's records
}

// ListOfficesHandler returns every registered office, CENTRAL included
func ListOfficesHandler(c echo.Context) error {
	offices, err := services.ListOffices(db.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, offices)
}

// CreateOfficeHandler explicitly registers an office ahead of first use
func CreateOfficeHandler(c echo.Context) error {
	var req officeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Office name is required"})
	}

	key := services.NormalizeOfficeKey(req.Name)
	if err := requireMutate(c, key); err != nil {
		return err
	}

	office, err := services.EnsureOffice(db.DB, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, office)
}

// RenameOfficeHandler renames an office, moving its records and trash
// provenance along with the registry entry
func RenameOfficeHandler(c echo.Context) error {
	oldKey := services.NormalizeOfficeKey(c.Param("key"))
	if err := requireMutate(c, oldKey); err != nil {
		return err
	}

	var req officeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "New office name is required"})
	}

	office, err := services.RenameOffice(db.DB, oldKey, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, office)
}

// DeleteOfficeHandler removes an office. A non-empty office requires a
// move_to destination; its records are migrated there first.
func DeleteOfficeHandler(c echo.Context) error {
	key := services.NormalizeOfficeKey(c.Param("key"))
	if err := requireMutate(c, key); err != nil {
		return err
	}

	var req deleteOfficeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.MoveTo != "" {
		if err := requireMutate(c, services.NormalizeOfficeKey(req.MoveTo)); err != nil {
			return err
		}
	}

	if err := services.RemoveOffice(db.DB, key, req.MoveTo); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
