package services

import (
	"errors"
	"fmt"

	"office_records_go/models"

	"gorm.io/gorm"
)

// MigrateRecord moves one record from a source office to a destination
// office, provisioning and registering the destination if it has never
// been seen. The denormalized office fields are restamped with the
// destination identity; CreatedAt is preserved. When source and
// destination normalize to the same key, the call is a successful no-op.
// Fails with ErrRecordNotFound if the source record is absent.
func MigrateRecord(db *gorm.DB, id uint, fromOffice, toOffice string) (*models.Record, error) {
	fromKey := NormalizeOfficeKey(fromOffice)
	toKey := NormalizeOfficeKey(toOffice)
	if fromKey == toKey {
		return GetRecord(db, fromKey, id)
	}

	var moved *models.Record
	err := db.Transaction(func(tx *gorm.DB) error {
		record, err := GetRecord(tx, fromKey, id)
		if err != nil {
			return err
		}

		office, err := EnsureOffice(tx, toOffice)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Record{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"office_key":          office.Key,
				"office_display_name": office.DisplayName,
			}).Error; err != nil {
			return fmt.Errorf("failed to migrate record %d to %s: %w", id, office.Key, err)
		}

		record.OfficeKey = office.Key
		record.OfficeDisplayName = office.DisplayName
		moved = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// MigrateBatch migrates each id in turn, silently skipping ids absent from
// the source office. Not atomic across the batch; the returned count says
// how many records actually moved.
func MigrateBatch(db *gorm.DB, ids []uint, fromOffice, toOffice string) (int, error) {
	moved := 0
	for _, id := range ids {
		_, err := MigrateRecord(db, id, fromOffice, toOffice)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// MoveAllRecords migrates every record of a source office to a destination
// office in one bulk update, used when an office is deleted with its
// contents moved elsewhere. Returns the number of records moved.
func MoveAllRecords(db *gorm.DB, fromKey, toOffice string) (int64, error) {
	toKey := NormalizeOfficeKey(toOffice)
	if fromKey == toKey {
		return 0, nil
	}

	office, err := EnsureOffice(db, toOffice)
	if err != nil {
		return 0, err
	}

	res := db.Model(&models.Record{}).
		Where("office_key = ?", fromKey).
		Updates(map[string]interface{}{
			"office_key":          office.Key,
			"office_display_name": office.DisplayName,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to move records from %s to %s: %w", fromKey, office.Key, res.Error)
	}
	return res.RowsAffected, nil
}
