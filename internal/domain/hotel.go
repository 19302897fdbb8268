package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Hotel Model
type Hotel struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      *uint          `gorm:"index" json:"user_id,omitempty"` // Owning user; nullable for unclaimed listings
	Name        string         `gorm:"size:100;not null" json:"name"`
	Location    string         `gorm:"size:100;not null" json:"location"`
	Description string         `gorm:"type:text" json:"description"`
	ContactInfo string         `gorm:"size:100" json:"contact_info"`
	Amenities   datatypes.JSON `json:"amenities"` // JSON array of amenity names
	CreatedAt   time.Time      `json:"created_at"`

	Packages []HotelPackage `gorm:"foreignKey:HotelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HotelPackage Model
type HotelPackage struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	HotelID     uint           `gorm:"index;not null" json:"hotel_id"` // Parent hotel
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Amenities   datatypes.JSON `json:"amenities"` // JSON array of amenity names
	CreatedAt   time.Time      `json:"created_at"`
}
