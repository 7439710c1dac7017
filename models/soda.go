package models

import "time"

// Soda is one drink-inventory row. Quantity is on-hand stock and must never
// go negative: settlement skips lines it cannot satisfy.
type Soda struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Brand     string    `gorm:"type:varchar(255)" json:"brand,omitempty"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
