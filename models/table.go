package models

import "time"

type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

type TableShape string

const (
	ShapeRound  TableShape = "round"
	ShapeSquare TableShape = "square"
	ShapeRect   TableShape = "rect"
)

// Table is one physical table on the floor plan. Occupied/reserved tables
// carry a customer descriptor; free tables carry nothing and own no lines.
type Table struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Number       int         `gorm:"uniqueIndex;not null" json:"number"`
	Capacity     int         `gorm:"not null" json:"capacity"`
	Shape        TableShape  `gorm:"type:varchar(20);not null;default:'round'" json:"shape"`
	Status       TableStatus `gorm:"type:varchar(20);not null;default:'free'" json:"status"`
	CustomerName string      `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	PartySize    int         `json:"party_size,omitempty"`
	OccupiedAt   *time.Time  `json:"occupied_at,omitempty"`
	Lines        []OrderLine `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// HasCustomer reports whether the occupant descriptor is filled in.
func (t *Table) HasCustomer() bool {
	return t.CustomerName != ""
}

// OrderTotal sums (unit price + extra) * quantity over every line.
func (t *Table) OrderTotal() float64 {
	var total float64
	for _, line := range t.Lines {
		total += line.Subtotal()
	}
	return total
}
