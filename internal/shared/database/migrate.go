package database

import (
	"flightly/internal/flights"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&flights.Flight{}); err != nil {
		return err
	}
	return MigrateIndexes(db)
}
