package services

import (
	"errors"
	"fmt"
	"sort"

	"office_records_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Office-related errors
var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrOfficeExists   = errors.New("office already exists")
	ErrOfficeNotEmpty = errors.New("office still has records")
)

// RegisterOffice inserts the registry row for a key if it is absent.
// First writer wins for the display name; an existing row is never
// overwritten. Safe to race: the insert is "do nothing" on conflict.
func RegisterOffice(db *gorm.DB, key, displayName string) error {
	office := models.Office{Key: key, DisplayName: displayName}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&office).Error; err != nil {
		return fmt.Errorf("failed to register office %s: %w", key, err)
	}
	return nil
}

// EnsureOffice is the get-or-create behind every write path: it normalizes
// the raw office input, registers the office if unseen, and returns the
// registry row. There is no separate "create office" step required before
// first use; writing implies the destination exists.
func EnsureOffice(db *gorm.DB, rawName string) (*models.Office, error) {
	key := NormalizeOfficeKey(rawName)
	if err := RegisterOffice(db, key, OfficeDisplayFromInput(rawName, key)); err != nil {
		return nil, err
	}

	var office models.Office
	if err := db.First(&office, "key = ?", key).Error; err != nil {
		return nil, fmt.Errorf("failed to load office %s: %w", key, err)
	}
	return &office, nil
}

// GetOfficeDisplay returns the registered display name for a key, or a
// label derived from the key itself when no registry row exists. This path
// never fails; a storage error degrades to the derived label.
func GetOfficeDisplay(db *gorm.DB, key string) string {
	var office models.Office
	if err := db.First(&office, "key = ?", key).Error; err != nil {
		return DisplayFromKey(key)
	}
	return office.DisplayName
}

// OfficeExists reports whether a registry row or any record references the key.
func OfficeExists(db *gorm.DB, key string) (bool, error) {
	var count int64
	if err := db.Model(&models.Office{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&models.Record{}).Where("office_key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountOfficeRecords returns the number of records in an office's partition.
func CountOfficeRecords(db *gorm.DB, key string) (int64, error) {
	var count int64
	err := db.Model(&models.Record{}).Where("office_key = ?", key).Count(&count).Error
	return count, err
}

// ListOffices returns every registered office sorted by display name.
// CENTRAL is synthesized into the result when its row is missing, so the
// distinguished office can never disappear from office-selection UI.
func ListOffices(db *gorm.DB) ([]models.Office, error) {
	var offices []models.Office
	if err := db.Order("display_name ASC").Find(&offices).Error; err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}

	hasCentral := false
	for _, o := range offices {
		if o.Key == models.CentralOfficeKey {
			hasCentral = true
			break
		}
	}
	if !hasCentral {
		offices = append(offices, models.Office{
			Key:         models.CentralOfficeKey,
			DisplayName: models.CentralOfficeKey,
		})
		sort.Slice(offices, func(i, j int) bool {
			return offices[i].DisplayName < offices[j].DisplayName
		})
	}
	return offices, nil
}

// RenameOffice renames an office in one transaction: the registry row, the
// office identity stamped on every record in the partition, and the
// provenance fields on trash entries that still reference the old key all
// move together, so no record is ever left citing a partition it is not in.
// Fails with ErrOfficeExists if the derived new key is already taken (no
// silent merge) and ErrOfficeNotFound if the old key is unknown.
func RenameOffice(db *gorm.DB, oldKey, newNameInput string) (*models.Office, error) {
	newKey := NormalizeOfficeKey(newNameInput)
	newDisplay := OfficeDisplayFromInput(newNameInput, newKey)

	exists, err := OfficeExists(db, oldKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check office %s: %w", oldKey, err)
	}
	if !exists {
		return nil, ErrOfficeNotFound
	}

	taken, err := OfficeExists(db, newKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check office %s: %w", newKey, err)
	}
	if taken {
		return nil, ErrOfficeExists
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Record{}).
			Where("office_key = ?", oldKey).
			Updates(map[string]interface{}{
				"office_key":          newKey,
				"office_display_name": newDisplay,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TrashEntry{}).
			Where("origin_office_key = ?", oldKey).
			Updates(map[string]interface{}{
				"origin_office_key":          newKey,
				"origin_office_display_name": newDisplay,
			}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Office{}).
			Where("key = ?", oldKey).
			Updates(map[string]interface{}{
				"key":          newKey,
				"display_name": newDisplay,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Office existed only as record rows; mint the registry entry.
			return RegisterOffice(tx, newKey, newDisplay)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename office %s: %w", oldKey, err)
	}

	return &models.Office{Key: newKey, DisplayName: newDisplay}, nil
}

// RemoveOffice deletes an office's registry row. An office holding records
// refuses deletion unless moveTo names a destination, in which case every
// record is migrated there first. Removing CENTRAL only drops its row; the
// office is resynthesized the next time anything looks for it.
func RemoveOffice(db *gorm.DB, key, moveTo string) error {
	count, err := CountOfficeRecords(db, key)
	if err != nil {
		return fmt.Errorf("failed to count records for office %s: %w", key, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if count > 0 {
			if moveTo == "" {
				return ErrOfficeNotEmpty
			}
			if _, err := MoveAllRecords(tx, key, moveTo); err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Office{}, "key = ?", key).Error; err != nil {
			return fmt.Errorf("failed to remove office %s: %w", key, err)
		}
		return nil
	})
}
