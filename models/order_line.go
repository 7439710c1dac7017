package models

import "time"

type LineKind string

const (
	LineFood  LineKind = "food"
	LineDrink LineKind = "drink"
)

// OrderLine is one pending entry on a table's bill. Menu and soda fields are
// copied by value so later catalog edits never rewrite an open order; drink
// lines keep SodaID so settlement can decrement stock.
//
// Every line carries a LineID regardless of kind, and removal always goes
// through it.
type OrderLine struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	LineID     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"line_id"`
	TableID    uint      `gorm:"index;not null" json:"table_id"`
	Kind       LineKind  `gorm:"type:varchar(10);not null" json:"kind"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Note       string    `gorm:"type:text" json:"note,omitempty"`
	Extra      float64   `gorm:"type:decimal(10,2);not null;default:0" json:"extra"`
	SodaID     *uint     `gorm:"index" json:"soda_id,omitempty"`
	MenuItemID *uint     `json:"menu_item_id,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// Subtotal is (unit price + extra charge) * quantity.
func (l *OrderLine) Subtotal() float64 {
	return (l.UnitPrice + l.Extra) * float64(l.Quantity)
}
