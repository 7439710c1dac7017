package models

import "time"

// DateLayout is the day key used across accounting tables.
const DateLayout = "2006-01-02"

// DailyTotal is the running sum of all settlement totals for one calendar
// date. Settlements add to it atomically via an upsert on the date key.
type DailyTotal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	Total     float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// DailySale is one quick-billing sale with no table attached.
type DailySale struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	SaleDate     string        `gorm:"type:varchar(10);index;not null" json:"sale_date"`
	TableNumber  *int          `json:"table_number,omitempty"`
	CustomerName string        `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	Lines        SnapshotLines `gorm:"type:text" json:"lines"`
	Total        float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
}

type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"type:varchar(10);index;not null" json:"date"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// CashRegister tracks the cash drawer for one date. ClosingAmount stays nil
// until the drawer is closed.
type CashRegister struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	OpeningAmount float64   `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	ClosingAmount *float64  `gorm:"type:decimal(12,2)" json:"closing_amount,omitempty"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
