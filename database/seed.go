package database

import (
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// Seed -> populates an empty database with the default floor plan and
// starter catalog. Safe to call on every boot; it only inserts when the
// tables are empty.
func Seed(db *gorm.DB) error {
	if err := seedTables(db); err != nil {
		return err
	}
	if err := seedMenu(db); err != nil {
		return err
	}
	return seedSodas(db)
}

func seedTables(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tables := make([]models.Table, 0, 12)
	for n := 1; n <= 12; n++ {
		shape := models.ShapeSquare
		capacity := 4
		switch {
		case n <= 4:
			shape = models.ShapeRound
		case n >= 11:
			shape = models.ShapeRect
			capacity = 8
		}
		tables = append(tables, models.Table{
			Number:   n,
			Capacity: capacity,
			Shape:    shape,
			Status:   models.TableFree,
		})
	}

	if err := db.Create(&tables).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	return nil
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Milanesa", Price: 7.50, Station: models.StationInsideKitchen},
		{Name: "Pollo Frito", Price: 6.00, Station: models.StationOutsideKitchen},
		{Name: "Plato del Dia", Price: 5.50, Station: models.StationBuffet},
	}

	if err := db.Create(&items).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d menu items", len(items))
	return nil
}

func seedSodas(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Soda{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sodas := []models.Soda{
		{Name: "Coca Cola", Brand: "Coca Cola", Quantity: 24, Price: 1.50},
		{Name: "Agua", Brand: "Aguazul", Quantity: 24, Price: 1.00},
		{Name: "Tropical", Brand: "Tropical", Quantity: 12, Price: 1.50},
	}

	if err := db.Create(&sodas).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d sodas", len(sodas))
	return nil
}
