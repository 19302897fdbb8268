package domain

import "time"

// TourismPackage Model
type TourismPackage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Destination  string    `gorm:"size:100;not null" json:"destination"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationDays int       `json:"duration_days"`
	CreatedBy    *uint     `gorm:"index" json:"created_by,omitempty"` // Curating package manager; nullable
	CreatedAt    time.Time `json:"created_at"`

	Guides []PackageGuide `gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TouristGuide Model. Guides are a shared directory, not scoped to any manager.
type TouristGuide struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	ContactInfo     string    `gorm:"size:100;not null" json:"contact_info"`
	RatePerDay      float64   `gorm:"type:decimal(10,2);not null" json:"rate_per_day"`
	Specialization  string    `gorm:"size:100" json:"specialization"`
	ExperienceYears int       `json:"experience_years"`
	CreatedAt       time.Time `json:"created_at"`
}

// PackageGuide links TourismPackage and TouristGuide many-to-many. Pure join
// record, no payload.
type PackageGuide struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PackageID uint `gorm:"index;not null" json:"package_id"`
	GuideID   uint `gorm:"index;not null" json:"guide_id"`
}
