package models

// CentralOfficeKey is the distinguished office every installation has.
// It is the fallback destination for records whose office cannot be
// resolved, and it is recreated whenever it is found missing.
const CentralOfficeKey = "CENTRAL"

// Office maps a canonical office key to its human display name.
// The key is derived from the display name by services.NormalizeOfficeKey
// and is immutable except through the explicit rename operation.
type Office struct {
	Key         string `gorm:"primarykey;size:64" json:"key"`
	DisplayName string `gorm:"not null" json:"display_name"`
}

// TableName specifies the table name for Office model
func (Office) TableName() string {
	return "offices"
}

// IsCentral reports whether this is the distinguished CENTRAL office.
func (o *Office) IsCentral() bool {
	return o.Key == CentralOfficeKey
}
