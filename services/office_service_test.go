package services

import (
	"testing"

	"office_records_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Office{},
		&models.Record{},
		&models.TrashEntry{},
		&models.User{},
		&models.Session{},
	)
	assert.NoError(t, err)
	return db
}

func TestEnsureOffice(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Creates registry row on first use", func(t *testing.T) {
		office, err := EnsureOffice(db, "Campos RJ")
		assert.NoError(t, err)
		assert.Equal(t, "CAMPOS_RJ", office.Key)
		assert.Equal(t, "CAMPOS RJ", office.DisplayName)
	})

	t.Run("First writer wins for the display name", func(t *testing.T) {
		office, err := EnsureOffice(db, "campos rj")
		assert.NoError(t, err)
		assert.Equal(t, "CAMPOS_RJ", office.Key)
		assert.Equal(t, "CAMPOS RJ", office.DisplayName)
	})

	t.Run("Empty input resolves to CENTRAL", func(t *testing.T) {
		office, err := EnsureOffice(db, "")
		assert.NoError(t, err)
		assert.Equal(t, models.CentralOfficeKey, office.Key)
	})
}

func TestGetOfficeDisplay(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, RegisterOffice(db, "CAMPOS_RJ", "CAMPOS RJ"))
	assert.Equal(t, "CAMPOS RJ", GetOfficeDisplay(db, "CAMPOS_RJ"))

	// Unregistered key degrades to a derived label, never an error
	assert.Equal(t, "NEVER SEEN", GetOfficeDisplay(db, "NEVER_SEEN"))
}

func TestListOffices(t *testing.T) {
	db := setupTestDB(t)

	t.Run("CENTRAL is synthesized when missing", func(t *testing.T) {
		offices, err := ListOffices(db)
		assert.NoError(t, err)
		assert.Len(t, offices, 1)
		assert.Equal(t, models.CentralOfficeKey, offices[0].Key)
	})

	t.Run("Sorted by display name", func(t *testing.T) {
		assert.NoError(t, RegisterOffice(db, "ZONA_SUL", "ZONA SUL"))
		assert.NoError(t, RegisterOffice(db, "ALDEIA", "ALDEIA"))

		offices, err := ListOffices(db)
		assert.NoError(t, err)
		assert.Len(t, offices, 3)
		assert.Equal(t, "ALDEIA", offices[0].DisplayName)
		assert.Equal(t, "CENTRAL", offices[1].DisplayName)
		assert.Equal(t, "ZONA SUL", offices[2].DisplayName)
	})
}

func TestRenameOffice(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateRecord(db, RecordInput{Office: "Campos RJ", Name: "Maria"})
	assert.NoError(t, err)
	_, err = CreateRecord(db, RecordInput{Office: "Central", Name: "Jose"})
	assert.NoError(t, err)

	t.Run("Conflict when the derived key already exists", func(t *testing.T) {
		_, err := RenameOffice(db, "CAMPOS_RJ", "Central")
		assert.ErrorIs(t, err, ErrOfficeExists)

		// Both partitions untouched
		count, err := CountOfficeRecords(db, "CAMPOS_RJ")
		assert.NoError(t, err)
		assert.EqualValues(t, 1, count)
		count, err = CountOfficeRecords(db, "CENTRAL")
		assert.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("NotFound for an unknown source office", func(t *testing.T) {
		_, err := RenameOffice(db, "NOWHERE", "Somewhere")
		assert.ErrorIs(t, err, ErrOfficeNotFound)
	})

	t.Run("Moves registry, records and trash provenance together", func(t *testing.T) {
		// Park one record in trash so provenance rewriting is observable
		records, _, _, err := ListRecords(db, "CAMPOS_RJ", RecordFilters{}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		_, err = SoftDeleteRecord(db, "CAMPOS_RJ", records[0].ID)
		assert.NoError(t, err)
		_, err = CreateRecord(db, RecordInput{Office: "Campos RJ", Name: "Ana"})
		assert.NoError(t, err)

		office, err := RenameOffice(db, "CAMPOS_RJ", "Campos dos Goytacazes")
		assert.NoError(t, err)
		assert.Equal(t, "CAMPOS_DOS_GOYTACAZES", office.Key)
		assert.Equal(t, "CAMPOS DOS GOYTACAZES", office.DisplayName)

		// Old key is gone
		exists, err := OfficeExists(db, "CAMPOS_RJ")
		assert.NoError(t, err)
		assert.False(t, exists)

		// Records carry the new identity
		records, _, _, err = ListRecords(db, "CAMPOS_DOS_GOYTACAZES", RecordFilters{}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "CAMPOS_DOS_GOYTACAZES", records[0].OfficeKey)
		assert.Equal(t, "CAMPOS DOS GOYTACAZES", records[0].OfficeDisplayName)

		// Trash provenance rewritten too
		entries, err := ListTrash(db)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "CAMPOS_DOS_GOYTACAZES", entries[0].OriginOfficeKey)
	})
}

func TestRemoveOffice(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Empty office is removed", func(t *testing.T) {
		assert.NoError(t, RegisterOffice(db, "EMPTY_ONE", "EMPTY ONE"))
		assert.NoError(t, RemoveOffice(db, "EMPTY_ONE", ""))

		exists, err := OfficeExists(db, "EMPTY_ONE")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Non-empty office refuses removal without a destination", func(t *testing.T) {
		_, err := CreateRecord(db, RecordInput{Office: "Busy Office", Name: "Carla"})
		assert.NoError(t, err)

		err = RemoveOffice(db, "BUSY_OFFICE", "")
		assert.ErrorIs(t, err, ErrOfficeNotEmpty)
	})

	t.Run("Records are moved to the destination before removal", func(t *testing.T) {
		assert.NoError(t, RemoveOffice(db, "BUSY_OFFICE", "Central"))

		count, err := CountOfficeRecords(db, "BUSY_OFFICE")
		assert.NoError(t, err)
		assert.EqualValues(t, 0, count)

		records, _, _, err := ListRecords(db, "CENTRAL", RecordFilters{Field: FilterByName, Value: "carla"}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "CENTRAL", records[0].OfficeKey)
	})

	t.Run("Removing CENTRAL only drops the row; listing resynthesizes it", func(t *testing.T) {
		// CENTRAL has one record moved in above, so move it away first
		assert.NoError(t, RemoveOffice(db, "CENTRAL", "Elsewhere"))

		offices, err := ListOffices(db)
		assert.NoError(t, err)
		keys := make([]string, len(offices))
		for i, o := range offices {
			keys[i] = o.Key
		}
		assert.Contains(t, keys, models.CentralOfficeKey)
	})
}
