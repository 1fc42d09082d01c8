package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"office_records_go/db"
	"office_records_go/models"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
)

type recordRequest struct {
	Office        string `json:"office"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	CaseType      string `json:"case_type"`
	ClosingDate   string `json:"closing_date"`
	PendingItems  string `json:"pending_items"`
	ProcessNumber string `json:"process_number"`
	ProtocolDate  string `json:"protocol_date"`
	Notes         string `json:"notes"`
	Agent         string `json:"agent"`
}

type migrateRequest struct {
	IDs []uint `json:"ids"`
	To  string `json:"to"`
}

type recordListResponse struct {
	Records    []models.Record `json:"records"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func (r recordRequest) toInput() services.RecordInput {
	return services.RecordInput{
		Office:        r.Office,
		Name:          r.Name,
		TaxID:         r.TaxID,
		CaseType:      r.CaseType,
		ClosingDate:   r.ClosingDate,
		PendingItems:  r.PendingItems,
		ProcessNumber: r.ProcessNumber,
		ProtocolDate:  r.ProtocolDate,
		Notes:         r.Notes,
		Agent:         r.Agent,
	}
}

func filtersFromQuery(c echo.Context) services.RecordFilters {
	return services.RecordFilters{
		Field:     c.QueryParam("filter"),
		Value:     strings.TrimSpace(c.QueryParam("value")),
		DateField: c.QueryParam("date_field"),
		DateFrom:  c.QueryParam("date_from"),
		DateTo:    c.QueryParam("date_to"),
	}
}

func pagingFromQuery(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page == 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	return page, services.NormalizePageSize(pageSize)
}

// CreateRecordHandler accepts a new record, provisioning its office on
// first use
func CreateRecordHandler(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	key := services.NormalizeOfficeKey(req.Office)
	if err := requireMutate(c, key); err != nil {
		return err
	}

	record, err := services.CreateRecord(db.DB, req.toInput())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// ListRecordsHandler lists one office partition, or every partition when
// the office parameter is ALL
func ListRecordsHandler(c echo.Context) error {
	officeParam := c.Param("key")
	filters := filtersFromQuery(c)
	page, pageSize := pagingFromQuery(c)

	var (
		records []models.Record
		total   int64
		err     error
	)
	if strings.EqualFold(officeParam, "ALL") {
		records, total, page, err = services.ListAllRecords(db.DB, filters, page, pageSize)
	} else {
		key := services.NormalizeOfficeKey(officeParam)
		records, total, page, err = services.ListRecords(db.DB, key, filters, page, pageSize)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, recordListResponse{
		Records:    records,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: services.TotalPages(total, pageSize),
	})
}

// GetRecordHandler returns one record from one office partition
func GetRecordHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	key := services.NormalizeOfficeKey(c.Param("key"))

	record, err := services.GetRecord(db.DB, key, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// UpdateRecordHandler overwrites a record's mutable fields; a changed
// office routes the update through migration
func UpdateRecordHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	key := services.NormalizeOfficeKey(c.Param("key"))
	if err := requireMutate(c, key); err != nil {
		return err
	}

	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Office != "" {
		destKey := services.NormalizeOfficeKey(req.Office)
		if destKey != key {
			if err := requireMutate(c, destKey); err != nil {
				return err
			}
		}
	}

	record, err := services.UpdateRecord(db.DB, key, id, req.toInput())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteRecordHandler soft-deletes one record into the trash
func DeleteRecordHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	key := services.NormalizeOfficeKey(c.Param("key"))
	if err := requireMutate(c, key); err != nil {
		return err
	}

	entry, err := services.SoftDeleteRecord(db.DB, key, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DeleteRecordsBatchHandler soft-deletes a batch, skipping missing ids
func DeleteRecordsBatchHandler(c echo.Context) error {
	key := services.NormalizeOfficeKey(c.Param("key"))
	if err := requireMutate(c, key); err != nil {
		return err
	}

	var req idListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	deleted, err := services.SoftDeleteBatch(db.DB, key, req.IDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}

// MigrateRecordHandler moves one record to another office
func MigrateRecordHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	key := services.NormalizeOfficeKey(c.Param("key"))

	var req migrateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.To) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Destination office is required"})
	}
	if err := requireMutate(c, key); err != nil {
		return err
	}
	if err := requireMutate(c, services.NormalizeOfficeKey(req.To)); err != nil {
		return err
	}

	record, err := services.MigrateRecord(db.DB, id, key, req.To)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// MigrateRecordsBatchHandler moves a batch, skipping missing ids
func MigrateRecordsBatchHandler(c echo.Context) error {
	key := services.NormalizeOfficeKey(c.Param("key"))

	var req migrateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.To) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Destination office is required"})
	}
	if err := requireMutate(c, key); err != nil {
		return err
	}
	if err := requireMutate(c, services.NormalizeOfficeKey(req.To)); err != nil {
		return err
	}

	moved, err := services.MigrateBatch(db.DB, req.IDs, key, req.To)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"moved": moved})
}
