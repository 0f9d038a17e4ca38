package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gametracker/models"
	"gametracker/utils"
)

// DB backs the durable local key-value store.
var DB *gorm.DB

// InitDB connects to postgres when databaseURL is set and to the sqlite file
// at sqlitePath otherwise, then migrates the preference table.
func InitDB(databaseURL, sqlitePath string) error {
	var dialector gorm.Dialector
	driver := "sqlite"
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
		driver = "postgres"
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	conn, err := Open(dialector)
	if err != nil {
		return err
	}
	DB = conn

	utils.LogInfo("Database connected and migrated", map[string]interface{}{"driver": driver})
	return nil
}

// Open connects and migrates. Tests call it with an in-memory sqlite.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.AutoMigrate(&models.PreferenceEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return conn, nil
}

// Ping reports whether the store is reachable.
func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
