package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateRecord(t *testing.T) {
	db := setupTestDB(t)

	record, err := CreateRecord(db, RecordInput{Office: "Central", Name: "Maria", TaxID: "111"})
	assert.NoError(t, err)

	t.Run("Moves the record, never duplicates it", func(t *testing.T) {
		moved, err := MigrateRecord(db, record.ID, "Central", "Campos RJ")
		assert.NoError(t, err)
		assert.Equal(t, record.ID, moved.ID)
		assert.Equal(t, "CAMPOS_RJ", moved.OfficeKey)
		assert.Equal(t, "CAMPOS RJ", moved.OfficeDisplayName)
		assert.True(t, moved.CreatedAt.Equal(record.CreatedAt))

		_, err = GetRecord(db, "CENTRAL", record.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)

		_, total, _, err := ListAllRecords(db, RecordFilters{}, 1, 10)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("Destination office is registered on first use", func(t *testing.T) {
		exists, err := OfficeExists(db, "CAMPOS_RJ")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Same source and destination is a successful no-op", func(t *testing.T) {
		moved, err := MigrateRecord(db, record.ID, "Campos RJ", "campos rj")
		assert.NoError(t, err)
		assert.Equal(t, "CAMPOS_RJ", moved.OfficeKey)
	})

	t.Run("NotFound when the record is not in the source office", func(t *testing.T) {
		_, err := MigrateRecord(db, record.ID, "Central", "Campos RJ")
		assert.ErrorIs(t, err, ErrRecordNotFound)

		_, err = MigrateRecord(db, 99999, "Campos RJ", "Central")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestMigrateBatch(t *testing.T) {
	db := setupTestDB(t)

	ids := make([]uint, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		record, err := CreateRecord(db, RecordInput{Office: "Central", Name: name})
		assert.NoError(t, err)
		ids = append(ids, record.ID)
	}

	moved, err := MigrateBatch(db, append(ids, 99999), "Central", "Zona Sul")
	assert.NoError(t, err)
	assert.Equal(t, 3, moved)

	count, err := CountOfficeRecords(db, "ZONA_SUL")
	assert.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = CountOfficeRecords(db, "CENTRAL")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMoveAllRecords(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 4; i++ {
		_, err := CreateRecord(db, RecordInput{Office: "Old Office", Name: "Client"})
		assert.NoError(t, err)
	}

	moved, err := MoveAllRecords(db, "OLD_OFFICE", "New Office")
	assert.NoError(t, err)
	assert.EqualValues(t, 4, moved)

	count, err := CountOfficeRecords(db, "OLD_OFFICE")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)

	count, err = CountOfficeRecords(db, "NEW_OFFICE")
	assert.NoError(t, err)
	assert.EqualValues(t, 4, count)

	t.Run("Same key moves nothing", func(t *testing.T) {
		moved, err := MoveAllRecords(db, "NEW_OFFICE", "new office")
		assert.NoError(t, err)
		assert.EqualValues(t, 0, moved)
	})
}
