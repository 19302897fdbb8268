package main

import (
	"tourism_system/internal/config" // Custom import path (Config)
	"tourism_system/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Main entry point for migration and demo seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	gormDB, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")

	if err := db.Seed(gormDB); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
}
