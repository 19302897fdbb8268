package domain

import "time"

// BookingStatusPending is the only status this codebase ever writes. The
// column stays free-form; no transition table is enforced.
const BookingStatusPending = "pending"

// Booking Model
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`    // Booking customer
	PackageID uint      `gorm:"index;not null" json:"package_id"` // Booked tourism package
	Status    string    `gorm:"size:20;default:pending" json:"status"`
	BookedAt  time.Time `gorm:"autoCreateTime" json:"booked_at"`
}
