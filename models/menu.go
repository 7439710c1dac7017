package models

import "time"

type KitchenStation string

const (
	StationBuffet         KitchenStation = "buffet"
	StationInsideKitchen  KitchenStation = "inside_kitchen"
	StationOutsideKitchen KitchenStation = "outside_kitchen"
)

type MenuItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Station   KitchenStation `gorm:"type:varchar(30);not null;default:'buffet'" json:"station"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}
