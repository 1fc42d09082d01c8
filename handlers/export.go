package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"office_records_go/db"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HeaderExportArchiveKey carries the archive key of a freshly stored export
// snapshot, for later retrieval through the archive endpoints.
const HeaderExportArchiveKey = "X-Export-Archive-Key"

// exportOfficeParam returns the office selector for an export: ALL, or the
// normalized office key.
func exportOfficeParam(c echo.Context) string {
	office := strings.TrimSpace(c.QueryParam("office"))
	if office == "" {
		return services.NormalizeOfficeKey("")
	}
	if strings.EqualFold(office, "ALL") {
		return "ALL"
	}
	return services.NormalizeOfficeKey(office)
}

func exportFilename(officeParam, extension string) string {
	return fmt.Sprintf("%s_export_%s.%s", officeParam, time.Now().Format("20060102_150405"), extension)
}

// ExportCSVHandler streams a semicolon-delimited CSV snapshot of one
// office, or of every office when office=ALL
func ExportCSVHandler(c echo.Context) error {
	officeParam := exportOfficeParam(c)
	records, err := services.AllRecordsForOffice(db.DB, officeParam)
	if err != nil {
		return serviceError(c, err)
	}

	var buf bytes.Buffer
	if err := services.WriteRecordsCSV(&buf, records); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build CSV export"})
	}
	if key := services.ArchiveExport(c.Request().Context(), officeParam, "csv", "text/csv", buf.Bytes()); key != "" {
		c.Response().Header().Set(HeaderExportArchiveKey, key)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+exportFilename(officeParam, "csv"))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportXLSXHandler streams an XLSX snapshot
func ExportXLSXHandler(c echo.Context) error {
	officeParam := exportOfficeParam(c)
	records, err := services.AllRecordsForOffice(db.DB, officeParam)
	if err != nil {
		return serviceError(c, err)
	}

	var buf bytes.Buffer
	if err := services.WriteRecordsXLSX(&buf, records); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build XLSX export"})
	}
	if key := services.ArchiveExport(c.Request().Context(), officeParam, "xlsx", xlsxContentType, buf.Bytes()); key != "" {
		c.Response().Header().Set(HeaderExportArchiveKey, key)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+exportFilename(officeParam, "xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// archiveKeyParam rebuilds the archive key from the wildcard path segment
// and rejects anything outside the exports/ prefix.
func archiveKeyParam(c echo.Context) (string, error) {
	name := c.Param("*")
	if name == "" || strings.Contains(name, "..") || strings.Contains(name, "/") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid export key")
	}
	return "exports/" + name, nil
}

// GetArchivedExportHandler streams a previously archived export snapshot,
// or returns a time-limited signed URL when signed=true is passed.
func GetArchivedExportHandler(c echo.Context) error {
	if services.Archive == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Export archiving is disabled"})
	}
	key, err := archiveKeyParam(c)
	if err != nil {
		return err
	}

	if c.QueryParam("signed") == "true" {
		url, err := services.Archive.GetSignedURL(c.Request().Context(), key, 15*time.Minute)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Export not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}

	body, contentType, err := services.Archive.Get(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Export not found"})
	}
	defer body.Close()
	return c.Stream(http.StatusOK, contentType, body)
}

// DeleteArchivedExportHandler removes an archived export snapshot
func DeleteArchivedExportHandler(c echo.Context) error {
	if services.Archive == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Export archiving is disabled"})
	}
	key, err := archiveKeyParam(c)
	if err != nil {
		return err
	}

	if err := services.Archive.Delete(c.Request().Context(), key); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete archived export"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportPDFHandler streams a PDF snapshot rendered via headless Chrome
func ExportPDFHandler(c echo.Context) error {
	officeParam := exportOfficeParam(c)
	records, err := services.AllRecordsForOffice(db.DB, officeParam)
	if err != nil {
		return serviceError(c, err)
	}

	label := officeParam
	if label != "ALL" {
		label = services.GetOfficeDisplay(db.DB, officeParam)
	}
	pdf, err := services.ExportRecordsPDF(label, records)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build PDF export"})
	}
	if key := services.ArchiveExport(c.Request().Context(), officeParam, "pdf", "application/pdf", pdf); key != "" {
		c.Response().Header().Set(HeaderExportArchiveKey, key)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+exportFilename(officeParam, "pdf"))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
