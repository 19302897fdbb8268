package db

import (
	"tourism_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates tables, foreign keys, constraints, columns and indexes for
// every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Hotel{},
		&domain.HotelPackage{},
		&domain.TourismPackage{},
		&domain.TouristGuide{},
		&domain.PackageGuide{},
		&domain.Booking{},
	)
}
