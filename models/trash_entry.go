package models

import (
	"time"

	"gorm.io/gorm"
)

// TrashEntry is a soft-deleted record parked in the shared trash table.
// OriginOfficeKey and OriginOfficeDisplayName carry enough provenance to
// pick (or lazily recreate) the restore destination.
type TrashEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DeletedAt time.Time `gorm:"not null;index" json:"deleted_at"`

	OriginOfficeKey         string `gorm:"size:64;not null;index" json:"origin_office_key"`
	OriginOfficeDisplayName string `gorm:"not null" json:"origin_office_display_name"`

	Name          string    `json:"name"`
	TaxID         string    `gorm:"size:32" json:"tax_id"`
	CaseType      string    `json:"case_type"`
	ClosingDate   string    `gorm:"size:10" json:"closing_date"`
	PendingItems  string    `gorm:"type:text" json:"pending_items"`
	ProcessNumber string    `gorm:"size:64" json:"process_number"`
	ProtocolDate  string    `gorm:"size:10" json:"protocol_date"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Agent         string    `json:"agent"`
	CreatedAt     time.Time `json:"created_at"` // original record creation time, preserved through restore
}

// BeforeCreate stamps the deletion time if the caller did not.
func (e *TrashEntry) BeforeCreate(tx *gorm.DB) error {
	if e.DeletedAt.IsZero() {
		e.DeletedAt = time.Now().UTC()
	}
	return nil
}

// TableName specifies the table name for TrashEntry model
func (TrashEntry) TableName() string {
	return "trash_entries"
}
