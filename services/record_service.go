package services

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"office_records_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Record-related errors
var (
	ErrRecordNotFound = errors.New("record not found")
)

// Filter field constants for RecordFilters.Field
const (
	FilterByName  = "name"
	FilterByTaxID = "tax_id"
	FilterByID    = "id"
)

// Date field constants for RecordFilters.DateField
const (
	DateFieldClosing  = "closing_date"
	DateFieldProtocol = "protocol_date"
)

// DefaultPageSize is used when the requested page size is not in the
// allowed set {10, 20, 50, 100}.
const DefaultPageSize = 10

// freeTextPolicy strips any markup from user-submitted free text fields.
var freeTextPolicy = bluemonday.StrictPolicy()

// sanitizeFreeText drops markup but keeps the text itself intact. The
// policy HTML-escapes what survives, so the entities are unescaped again:
// stored values are plain text ("prazo < 30 dias" stays as typed), and
// each output surface applies its own encoding.
func sanitizeFreeText(s string) string {
	return html.UnescapeString(freeTextPolicy.Sanitize(s))
}

// RecordFilters holds the listing predicates: at most one text predicate
// and at most one date range over closing_date or protocol_date.
type RecordFilters struct {
	Field string // name, tax_id or id
	Value string

	DateField string // closing_date or protocol_date
	DateFrom  string // YYYY-MM-DD, inclusive
	DateTo    string // YYYY-MM-DD, inclusive
}

// RecordInput carries the mutable business fields of a record plus the raw
// office input the user typed or selected.
type RecordInput struct {
	Office        string
	Name          string
	TaxID         string
	CaseType      string
	ClosingDate   string
	PendingItems  string
	ProcessNumber string
	ProtocolDate  string
	Notes         string
	Agent         string
}

// NormalizePageSize constrains a requested page size to the allowed set,
// silently falling back to the default for anything else.
func NormalizePageSize(size int) int {
	switch size {
	case 10, 20, 50, 100:
		return size
	}
	return DefaultPageSize
}

// ClampPage clamps a page number into [1, total_pages] for the given total
// row count and page size. An empty result set still has one (empty) page.
func ClampPage(page int, total int64, pageSize int) int {
	totalPages := TotalPages(total, pageSize)
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// TotalPages returns the number of pages for a total row count, minimum 1.
func TotalPages(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// CreateRecord accepts a new record into the office named by the input,
// provisioning and registering the office if this is its first use.
// CreatedAt is stamped at acceptance and never changes afterwards.
func CreateRecord(db *gorm.DB, input RecordInput) (*models.Record, error) {
	office, err := EnsureOffice(db, input.Office)
	if err != nil {
		return nil, err
	}

	record := models.Record{
		OfficeKey:         office.Key,
		OfficeDisplayName: office.DisplayName,
	}
	applyRecordInput(&record, input)

	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return &record, nil
}

// GetRecord retrieves a record by id within one office partition.
func GetRecord(db *gorm.DB, officeKey string, id uint) (*models.Record, error) {
	var record models.Record
	err := db.Where("office_key = ? AND id = ?", officeKey, id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load record %d: %w", id, err)
	}
	return &record, nil
}

// UpdateRecord overwrites the mutable fields of a record. When the
// submitted office normalizes to a different key than the partition the
// record sits in, the update is routed through migration instead: the
// record moves to the destination partition with the new field values and
// its original CreatedAt. ID and CreatedAt are never touched either way.
func UpdateRecord(db *gorm.DB, officeKey string, id uint, input RecordInput) (*models.Record, error) {
	var updated *models.Record

	err := db.Transaction(func(tx *gorm.DB) error {
		record, err := GetRecord(tx, officeKey, id)
		if err != nil {
			return err
		}

		destKey := record.OfficeKey
		destDisplay := GetOfficeDisplay(tx, destKey)
		if strings.TrimSpace(input.Office) != "" {
			destKey = NormalizeOfficeKey(input.Office)
		}
		if destKey != record.OfficeKey {
			office, err := EnsureOffice(tx, input.Office)
			if err != nil {
				return err
			}
			destKey = office.Key
			destDisplay = office.DisplayName
		}

		applyRecordInput(record, input)
		record.OfficeKey = destKey
		record.OfficeDisplayName = destDisplay

		if err := tx.Model(&models.Record{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"office_key":          record.OfficeKey,
				"office_display_name": record.OfficeDisplayName,
				"name":                record.Name,
				"tax_id":              record.TaxID,
				"case_type":           record.CaseType,
				"closing_date":        record.ClosingDate,
				"pending_items":       record.PendingItems,
				"process_number":      record.ProcessNumber,
				"protocol_date":       record.ProtocolDate,
				"notes":               record.Notes,
				"agent":               record.Agent,
			}).Error; err != nil {
			return fmt.Errorf("failed to update record %d: %w", id, err)
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListRecords lists one office partition with filters and pagination.
// Ordering is id descending, newest insertion first. The returned page
// number is the clamped effective page.
func ListRecords(db *gorm.DB, officeKey string, filters RecordFilters, page, pageSize int) ([]models.Record, int64, int, error) {
	query := applyRecordFilters(db.Model(&models.Record{}).Where("office_key = ?", officeKey), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 1, fmt.Errorf("failed to count records: %w", err)
	}

	pageSize = NormalizePageSize(pageSize)
	page = ClampPage(page, total, pageSize)

	var records []models.Record
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, page, nil
}

// ListAllRecords is the aggregate "ALL offices" read path: the same filter
// predicates applied across every partition, sorted by CreatedAt descending
// (ids are only meaningful for ordering within one partition's history),
// then paginated.
func ListAllRecords(db *gorm.DB, filters RecordFilters, page, pageSize int) ([]models.Record, int64, int, error) {
	query := applyRecordFilters(db.Model(&models.Record{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 1, fmt.Errorf("failed to count records: %w", err)
	}

	pageSize = NormalizePageSize(pageSize)
	page = ClampPage(page, total, pageSize)

	var records []models.Record
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, page, nil
}

// AllRecordsForOffice returns an office's full partition, or every record
// when officeParam is ALL. Used by the export snapshots, which apply no
// pagination.
func AllRecordsForOffice(db *gorm.DB, officeParam string) ([]models.Record, error) {
	var records []models.Record
	query := db.Model(&models.Record{})
	if strings.EqualFold(officeParam, "ALL") {
		query = query.Order("created_at DESC, id DESC")
	} else {
		query = query.Where("office_key = ?", NormalizeOfficeKey(officeParam)).Order("id DESC")
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load records for export: %w", err)
	}
	return records, nil
}

// applyRecordFilters translates RecordFilters into WHERE clauses. An
// unparseable id predicate matches nothing rather than erroring, keeping
// listing endpoints non-fatal on malformed input.
func applyRecordFilters(query *gorm.DB, filters RecordFilters) *gorm.DB {
	if filters.Field != "" && filters.Value != "" {
		switch filters.Field {
		case FilterByName:
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Value)+"%")
		case FilterByTaxID:
			query = query.Where("tax_id LIKE ?", "%"+filters.Value+"%")
		case FilterByID:
			id, err := strconv.ParseUint(filters.Value, 10, 64)
			if err != nil {
				query = query.Where("1 = 0")
			} else {
				query = query.Where("id = ?", id)
			}
		}
	}

	if filters.DateField == DateFieldClosing || filters.DateField == DateFieldProtocol {
		switch {
		case filters.DateFrom != "" && filters.DateTo != "":
			query = query.Where(filters.DateField+" BETWEEN ? AND ?", filters.DateFrom, filters.DateTo)
		case filters.DateFrom != "":
			query = query.Where(filters.DateField+" >= ?", filters.DateFrom)
		case filters.DateTo != "":
			query = query.Where(filters.DateField+" <= ?", filters.DateTo)
		}
	}
	return query
}

// applyRecordInput copies the mutable business fields onto a record,
// stripping markup from the free-text ones.
func applyRecordInput(record *models.Record, input RecordInput) {
	record.Name = sanitizeFreeText(input.Name)
	record.TaxID = strings.TrimSpace(input.TaxID)
	record.CaseType = input.CaseType
	record.ClosingDate = input.ClosingDate
	record.PendingItems = sanitizeFreeText(input.PendingItems)
	record.ProcessNumber = strings.TrimSpace(input.ProcessNumber)
	record.ProtocolDate = input.ProtocolDate
	record.Notes = sanitizeFreeText(input.Notes)
	record.Agent = sanitizeFreeText(input.Agent)
}
