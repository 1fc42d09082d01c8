package models

import (
	"time"

	"gorm.io/gorm"
)

// Record is a client case record. All records live in one physical table;
// the office partition is logical, selected by the indexed OfficeKey column.
// OfficeKey and OfficeDisplayName are denormalized copies of the owning
// office's identity and must always match the partition the record sits in.
type Record struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	OfficeKey         string `gorm:"size:64;not null;index" json:"office_key"`
	OfficeDisplayName string `gorm:"not null" json:"office_display_name"`

	Name          string `json:"name"`
	TaxID         string `gorm:"size:32;index" json:"tax_id"`
	CaseType      string `json:"case_type"`
	ClosingDate   string `gorm:"size:10" json:"closing_date"`
	PendingItems  string `gorm:"type:text" json:"pending_items"`
	ProcessNumber string `gorm:"size:64" json:"process_number"`
	ProtocolDate  string `gorm:"size:10" json:"protocol_date"`
	Notes         string `gorm:"type:text" json:"notes"`
	Agent         string `json:"agent"`
}

// BeforeCreate preserves an explicit CreatedAt (restore and migration carry
// the original timestamp) and stamps new records with the current UTC time.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

// TableName specifies the table name for Record model
func (Record) TableName() string {
	return "records"
}
