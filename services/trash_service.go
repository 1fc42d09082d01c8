package services

import (
	"errors"
	"fmt"
	"time"

	"office_records_go/models"

	"gorm.io/gorm"
)

// Trash-related errors
var (
	ErrTrashEntryNotFound = errors.New("trash entry not found")
)

// SoftDeleteRecord moves a record from its office partition into the shared
// trash table, stamping the deletion time and carrying the office identity
// as provenance. Copy and delete run in one transaction, so a failure
// between the two rolls the copy back rather than losing or duplicating
// the record.
func SoftDeleteRecord(db *gorm.DB, officeKey string, id uint) (*models.TrashEntry, error) {
	var entry *models.TrashEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		record, err := GetRecord(tx, officeKey, id)
		if err != nil {
			return err
		}

		display := record.OfficeDisplayName
		if display == "" {
			display = GetOfficeDisplay(tx, record.OfficeKey)
		}

		e := models.TrashEntry{
			OriginOfficeKey:         record.OfficeKey,
			OriginOfficeDisplayName: display,
			Name:                    record.Name,
			TaxID:                   record.TaxID,
			CaseType:                record.CaseType,
			ClosingDate:             record.ClosingDate,
			PendingItems:            record.PendingItems,
			ProcessNumber:           record.ProcessNumber,
			ProtocolDate:            record.ProtocolDate,
			Notes:                   record.Notes,
			Agent:                   record.Agent,
			CreatedAt:               record.CreatedAt,
			DeletedAt:               time.Now().UTC(),
		}
		if err := tx.Create(&e).Error; err != nil {
			return fmt.Errorf("failed to copy record %d to trash: %w", id, err)
		}
		if err := tx.Delete(&models.Record{}, record.ID).Error; err != nil {
			return fmt.Errorf("failed to delete record %d: %w", id, err)
		}

		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SoftDeleteBatch soft-deletes each id in turn, silently skipping ids that
// no longer exist. The batch is not atomic; partial success is the
// contract, and the returned count says how many actually moved.
func SoftDeleteBatch(db *gorm.DB, officeKey string, ids []uint) (int, error) {
	deleted := 0
	for _, id := range ids {
		_, err := SoftDeleteRecord(db, officeKey, id)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// ListTrash returns every trash entry, newest deletion first.
func ListTrash(db *gorm.DB) ([]models.TrashEntry, error) {
	var entries []models.TrashEntry
	if err := db.Order("deleted_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}
	return entries, nil
}

// RestoreRecord moves a trash entry back into its origin office. The
// destination is taken from the stored provenance key, falling back to
// normalizing the provenance display name when the key is missing or
// malformed, and the office is recreated if it no longer exists — restore
// never fails for lack of a destination partition. The record keeps its
// original CreatedAt.
func RestoreRecord(db *gorm.DB, trashID uint) (*models.Record, error) {
	var restored *models.Record

	err := db.Transaction(func(tx *gorm.DB) error {
		var entry models.TrashEntry
		if err := tx.First(&entry, "id = ?", trashID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTrashEntryNotFound
			}
			return fmt.Errorf("failed to load trash entry %d: %w", trashID, err)
		}

		destKey := entry.OriginOfficeKey
		if destKey == "" || NormalizeOfficeKey(destKey) != destKey {
			destKey = NormalizeOfficeKey(entry.OriginOfficeDisplayName)
		}
		display := entry.OriginOfficeDisplayName
		if display == "" {
			display = DisplayFromKey(destKey)
		}
		if err := RegisterOffice(tx, destKey, display); err != nil {
			return err
		}
		display = GetOfficeDisplay(tx, destKey)

		record := models.Record{
			OfficeKey:         destKey,
			OfficeDisplayName: display,
			Name:              entry.Name,
			TaxID:             entry.TaxID,
			CaseType:          entry.CaseType,
			ClosingDate:       entry.ClosingDate,
			PendingItems:      entry.PendingItems,
			ProcessNumber:     entry.ProcessNumber,
			ProtocolDate:      entry.ProtocolDate,
			Notes:             entry.Notes,
			Agent:             entry.Agent,
			CreatedAt:         entry.CreatedAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to restore trash entry %d: %w", trashID, err)
		}
		if err := tx.Delete(&models.TrashEntry{}, entry.ID).Error; err != nil {
			return fmt.Errorf("failed to remove trash entry %d: %w", trashID, err)
		}

		restored = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// RestoreBatch restores each trash id in turn, skipping missing entries.
// Partial success is the contract, as with SoftDeleteBatch.
func RestoreBatch(db *gorm.DB, trashIDs []uint) (int, error) {
	restored := 0
	for _, id := range trashIDs {
		_, err := RestoreRecord(db, id)
		if errors.Is(err, ErrTrashEntryNotFound) {
			continue
		}
		if err != nil {
			return restored, err
		}
		restored++
	}
	return restored, nil
}

// PurgeRecord permanently erases a trash entry. No recovery is possible.
func PurgeRecord(db *gorm.DB, trashID uint) error {
	res := db.Delete(&models.TrashEntry{}, trashID)
	if res.Error != nil {
		return fmt.Errorf("failed to purge trash entry %d: %w", trashID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTrashEntryNotFound
	}
	return nil
}

// PurgeBatch permanently erases the given trash ids, skipping missing ones.
func PurgeBatch(db *gorm.DB, trashIDs []uint) (int, error) {
	purged := 0
	for _, id := range trashIDs {
		err := PurgeRecord(db, id)
		if errors.Is(err, ErrTrashEntryNotFound) {
			continue
		}
		if err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
