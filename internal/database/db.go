package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect

	"cantina/internal/models"
)

var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema
func InitDB(driver, dsn string) error {
	var err error
	DB, err = gorm.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s database: %w", driver, err)
	}
	return Migrate(DB)
}

// Migrate creates or updates the tables used by the service
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.Recipe{}).Error
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
