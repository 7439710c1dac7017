package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type KitchenOrderStatus string

const (
	KitchenPending    KitchenOrderStatus = "pending"
	KitchenInProgress KitchenOrderStatus = "in_progress"
	KitchenCompleted  KitchenOrderStatus = "completed"
)

// CanAdvanceTo enforces the only two legal transitions:
// pending -> in_progress -> completed.
func (s KitchenOrderStatus) CanAdvanceTo(next KitchenOrderStatus) bool {
	switch s {
	case KitchenPending:
		return next == KitchenInProgress
	case KitchenInProgress:
		return next == KitchenCompleted
	}
	return false
}

// KitchenItem is one dish relayed to the kitchen (food lines only).
type KitchenItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

type KitchenItems []KitchenItem

func (k KitchenItems) Value() (driver.Value, error) {
	return json.Marshal(k)
}

func (k *KitchenItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, k)
	case string:
		return json.Unmarshal([]byte(v), k)
	case nil:
		*k = nil
		return nil
	}
	return errors.New("unsupported type for KitchenItems")
}

type KitchenOrder struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	TableNumber int                `gorm:"not null" json:"table_number"`
	Items       KitchenItems       `gorm:"type:text" json:"items"`
	Status      KitchenOrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time          `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"not null" json:"updated_at"`
}
