package services

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"office_records_go/models"

	"github.com/xuri/excelize/v2"
)

// RecordExportHeader is the column order of every export snapshot. It
// mirrors the listing surface so CSV, XLSX and PDF stay interchangeable.
var RecordExportHeader = []string{
	"id", "name", "tax_id", "office_display_name", "office_key",
	"case_type", "closing_date", "pending_items", "process_number",
	"protocol_date", "notes", "agent", "created_at",
}

// recordExportRow flattens a record into the export column order.
func recordExportRow(r models.Record) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.Name,
		r.TaxID,
		r.OfficeDisplayName,
		r.OfficeKey,
		r.CaseType,
		r.ClosingDate,
		r.PendingItems,
		r.ProcessNumber,
		r.ProtocolDate,
		r.Notes,
		r.Agent,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteRecordsCSV writes a semicolon-delimited CSV snapshot of the given
// records, header first.
func WriteRecordsCSV(w io.Writer, records []models.Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write(RecordExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(recordExportRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecordsXLSX writes an XLSX snapshot with one "Records" sheet.
func WriteRecordsXLSX(w io.Writer, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Records"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range RecordExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for rowIdx, r := range records {
		for colIdx, value := range recordExportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	f.SetColWidth(sheet, "A", "M", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// RenderRecordsHTML renders the records as a printable HTML table, the
// input for the Chrome-backed PDF snapshot.
func RenderRecordsHTML(officeLabel string, records []models.Record) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`body{font-family:Helvetica,Arial,sans-serif;font-size:10px}`)
	b.WriteString(`h1{font-size:14px}table{border-collapse:collapse;width:100%}`)
	b.WriteString(`th,td{border:1px solid #999;padding:3px 5px;text-align:left}`)
	b.WriteString(`th{background:#eee}</style></head><body>`)
	b.WriteString("<h1>Records - Office " + html.EscapeString(officeLabel) + "</h1>")
	b.WriteString("<table><tr>")
	for _, header := range RecordExportHeader {
		b.WriteString("<th>" + html.EscapeString(header) + "</th>")
	}
	b.WriteString("</tr>")
	for _, r := range records {
		b.WriteString("<tr>")
		for _, value := range recordExportRow(r) {
			b.WriteString("<td>" + html.EscapeString(value) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

// ExportRecordsPDF renders the records table to PDF via headless Chrome.
func ExportRecordsPDF(officeLabel string, records []models.Record) ([]byte, error) {
	options := DefaultPDFOptions()
	options.PageOrientation = "landscape"
	return GeneratePDF(RenderRecordsHTML(officeLabel, records), options)
}
