package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SnapshotLine is one bill entry frozen into an OrderHistory record.
type SnapshotLine struct {
	LineID    string   `json:"line_id"`
	Kind      LineKind `json:"kind"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note,omitempty"`
	Extra     float64  `json:"extra,omitempty"`
	Subtotal  float64  `json:"subtotal"`
}

type SnapshotLines []SnapshotLine

func (s SnapshotLines) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SnapshotLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported type for SnapshotLines")
}

// OrderHistory is the immutable record written at settlement time. It is
// never updated afterwards; accounting reads it for the per-day breakdown.
type OrderHistory struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	TableID     uint          `gorm:"index" json:"table_id"`
	TableNumber int           `gorm:"not null" json:"table_number"`
	Lines       SnapshotLines `gorm:"type:text" json:"lines"`
	Total       float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"created_at"`
}
