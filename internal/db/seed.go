package db

import (
	"tourism_system/internal/domain"
	"tourism_system/internal/utils"

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Seed inserts demo data when the users table is empty: one account per role,
// a hotel with a package, two packages with guides, and a legacy account
// whose password is stored in plaintext so the upgrade-on-login path can be
// exercised out of the box.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logrus.Info("Seed skipped, users already present")
		return nil
	}

	hash := func(pw string) string {
		h, err := utils.HashPassword(pw)
		if err != nil {
			logrus.Fatalf("failed to hash seed password: %v", err)
		}
		return h
	}

	customer := domain.User{Username: "alice", Email: "alice@example.com", Password: hash("customer123"), Role: domain.RoleCustomer}
	operator := domain.User{Username: "grandpalace", Email: "stay@grandpalace.example.com", Password: hash("hotel123"), Role: domain.RoleHotel}
	manager := domain.User{Username: "marco", Email: "marco@example.com", Password: hash("manager123"), Role: domain.RolePackageManager}
	// Legacy row: plaintext on purpose, rewritten as a hash on first login
	legacy := domain.User{Username: "legacy", Email: "legacy@example.com", Password: "legacy123", Role: domain.RoleCustomer}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range []*domain.User{&customer, &operator, &manager, &legacy} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		hotel := domain.Hotel{
			UserID:      &operator.ID,
			Name:        "Grand Palace Hotel",
			Location:    "Zurich",
			Description: "Lakeside rooms close to the old town.",
			ContactInfo: "stay@grandpalace.example.com",
			Amenities:   []byte(`["wifi","spa","breakfast"]`),
		}
		if err := tx.Create(&hotel).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.HotelPackage{
			HotelID:     hotel.ID,
			Title:       "Weekend Getaway",
			Description: "Two nights with breakfast and spa access.",
			Price:       349.00,
			Amenities:   []byte(`["late checkout","spa"]`),
		}).Error; err != nil {
			return err
		}

		guide := domain.TouristGuide{
			Name:            "Nina Keller",
			ContactInfo:     "nina@guides.example.com",
			RatePerDay:      180.00,
			Specialization:  "Alpine hiking",
			ExperienceYears: 8,
		}
		if err := tx.Create(&guide).Error; err != nil {
			return err
		}

		trek := domain.TourismPackage{
			Title:        "Alps Trek",
			Destination:  "Switzerland",
			Description:  "Five-day guided trek across the Bernese Alps.",
			Price:        1290.00,
			DurationDays: 5,
			CreatedBy:    &manager.ID,
		}
		city := domain.TourismPackage{
			Title:        "City Lights",
			Destination:  "Prague",
			Description:  "Three-day city break with river cruise.",
			Price:        540.00,
			DurationDays: 3,
			CreatedBy:    &manager.ID,
		}
		for _, p := range []*domain.TourismPackage{&trek, &city} {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&domain.PackageGuide{PackageID: trek.ID, GuideID: guide.ID}).Error; err != nil {
			return err
		}

		logrus.Info("Demo data seeded")
		return nil
	})
}
