package handlers

import (
	"net/http"

	"office_records_go/db"
	"office_records_go/middleware"
	"office_records_go/models"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
)

// restoreTargetKey resolves the office a trash entry would restore into,
// mirroring the provenance rules of the restore operation itself.
func restoreTargetKey(entry *models.TrashEntry) string {
	key := entry.OriginOfficeKey
	if key == "" || services.NormalizeOfficeKey(key) != key {
		key = services.NormalizeOfficeKey(entry.OriginOfficeDisplayName)
	}
	return key
}

// ListTrashHandler returns every trash entry, newest deletion first
func ListTrashHandler(c echo.Context) error {
	entries, err := services.ListTrash(db.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// RestoreTrashHandler moves one trash entry back into its origin office,
// recreating the office if it no longer exists
func RestoreTrashHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var entry models.TrashEntry
	if err := db.DB.First(&entry, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Trash entry not found"})
	}
	if err := requireMutate(c, restoreTargetKey(&entry)); err != nil {
		return err
	}

	record, err := services.RestoreRecord(db.DB, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// RestoreTrashBatchHandler restores a batch, skipping missing entries
func RestoreTrashBatchHandler(c echo.Context) error {
	var req idListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	// Only restore entries whose destination the user may mutate; the
	// rest are skipped like missing ids, not failed.
	user := middleware.GetCurrentUser(c)
	allowed := make([]uint, 0, len(req.IDs))
	for _, id := range req.IDs {
		var entry models.TrashEntry
		if err := db.DB.First(&entry, "id = ?", id).Error; err != nil {
			continue
		}
		if services.MayMutate(user, restoreTargetKey(&entry)) {
			allowed = append(allowed, id)
		}
	}

	restored, err := services.RestoreBatch(db.DB, allowed)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"restored": restored})
}

// PurgeTrashHandler permanently erases a trash entry (ADMIN only, enforced
// by route middleware)
func PurgeTrashHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := services.PurgeRecord(db.DB, id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PurgeTrashBatchHandler permanently erases a batch of trash entries
func PurgeTrashBatchHandler(c echo.Context) error {
	var req idListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	purged, err := services.PurgeBatch(db.DB, req.IDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"purged": purged})
}
