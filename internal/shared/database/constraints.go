package database

import (
	"gorm.io/gorm"
)

// MigrateIndexes adds indexes AutoMigrate cannot express. The GIN index
// backs the jsonb containment lookup used to patch a passenger inside the
// seated array.
func MigrateIndexes(db *gorm.DB) error {
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_flights_passengers_gin
		ON flights USING GIN (passengers jsonb_path_ops);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
