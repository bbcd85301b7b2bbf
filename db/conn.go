// Package db handles database connections and schema migration
package db

import (
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	default:
		dialector = sqlite.Open(viper.GetString("db.dsn"))
	}

	db, err := gorm.Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables. Exposed separately so tests
// can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(model.User{}, model.Book{}, model.LibraryEntry{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
