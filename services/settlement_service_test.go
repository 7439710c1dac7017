package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

func setupSettlementDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.OrderLine{},
		&models.Soda{},
		&models.OrderHistory{},
		&models.DailyTotal{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func occupiedTable(t *testing.T, db *gorm.DB, number int, customer string) models.Table {
	t.Helper()
	now := time.Now()
	table := models.Table{
		Number:       number,
		Capacity:     4,
		Shape:        models.ShapeRound,
		Status:       models.TableOccupied,
		CustomerName: customer,
		PartySize:    2,
		OccupiedAt:   &now,
	}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return table
}

func TestSettleFullFlow(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	cola := models.Soda{Name: "Coca Cola", Brand: "Coca Cola", Quantity: 10, Price: 1.50}
	db.Create(&cola)

	table := occupiedTable(t, db, 3, "Lopez")
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineFood,
		Name: "Milanesa", UnitPrice: 7.50, Quantity: 2,
	})
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineDrink,
		Name: cola.Name, UnitPrice: cola.Price, Quantity: 1, SodaID: &cola.ID,
	})

	result, err := svc.Settle(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, 16.50, result.Total)
	assert.Empty(t, result.LineErrors)
	assert.NotEmpty(t, result.InvoiceNumber)

	// Stock went down by exactly the ordered quantity.
	var fresh models.Soda
	db.First(&fresh, cola.ID)
	assert.Equal(t, 9, fresh.Quantity)

	// Snapshot holds every line and the same total.
	var history models.OrderHistory
	assert.NoError(t, db.First(&history, result.History.ID).Error)
	assert.Equal(t, table.Number, history.TableNumber)
	assert.Equal(t, 16.50, history.Total)
	assert.Len(t, history.Lines, 2)

	// Daily total matches the bill.
	var daily models.DailyTotal
	assert.NoError(t, db.Where("date = ?", time.Now().Format(models.DateLayout)).First(&daily).Error)
	assert.Equal(t, 16.50, daily.Total)

	// Table is free again with nothing left on it.
	var reset models.Table
	db.Preload("Lines").First(&reset, table.ID)
	assert.Equal(t, models.TableFree, reset.Status)
	assert.Empty(t, reset.CustomerName)
	assert.Nil(t, reset.OccupiedAt)
	assert.Empty(t, reset.Lines)
}

func TestSettleAddsToExistingDailyTotal(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	for _, amount := range []float64{5.00, 7.25} {
		table := occupiedTable(t, db, int(amount*100), "Perez")
		db.Create(&models.OrderLine{
			LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineFood,
			Name: "Plato del Dia", UnitPrice: amount, Quantity: 1,
		})
		_, err := svc.Settle(table.ID)
		assert.NoError(t, err)
	}

	var daily models.DailyTotal
	assert.NoError(t, db.Where("date = ?", time.Now().Format(models.DateLayout)).First(&daily).Error)
	assert.InDelta(t, 12.25, daily.Total, 0.001)

	var count int64
	db.Model(&models.DailyTotal{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSettleSkipsShortStock(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	empty := models.Soda{Name: "Tropical", Brand: "Tropical", Quantity: 0, Price: 1.50}
	db.Create(&empty)

	table := occupiedTable(t, db, 5, "Garcia")
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineFood,
		Name: "Pollo Frito", UnitPrice: 6.00, Quantity: 1,
	})
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineDrink,
		Name: empty.Name, UnitPrice: empty.Price, Quantity: 2, SodaID: &empty.ID,
	})

	result, err := svc.Settle(table.ID)
	assert.NoError(t, err)

	// The drink still gets billed; only the stock decrement is skipped.
	assert.Equal(t, 9.00, result.Total)
	assert.Len(t, result.LineErrors, 1)
	assert.Equal(t, empty.Name, result.LineErrors[0].Name)

	// Quantity never goes negative.
	var fresh models.Soda
	db.First(&fresh, empty.ID)
	assert.Equal(t, 0, fresh.Quantity)

	// Settlement itself still completed.
	var reset models.Table
	db.First(&reset, table.ID)
	assert.Equal(t, models.TableFree, reset.Status)
}

func TestSettleMissingInventoryRow(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	missing := uint(999)
	table := occupiedTable(t, db, 7, "Mejia")
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineDrink,
		Name: "Fantasma", UnitPrice: 2.00, Quantity: 1, SodaID: &missing,
	})

	result, err := svc.Settle(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2.00, result.Total)
	assert.Len(t, result.LineErrors, 1)
	assert.Equal(t, "inventory row not found", result.LineErrors[0].Reason)
}

func TestSettleRejectsFreeOrUnknownTable(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	_, err := svc.Settle(42)
	assert.ErrorIs(t, err, ErrTableNotFound)

	free := models.Table{Number: 1, Capacity: 4, Shape: models.ShapeRound, Status: models.TableFree}
	db.Create(&free)
	_, err = svc.Settle(free.ID)
	assert.ErrorIs(t, err, ErrNothingToSettle)

	// Occupied but with nothing ordered is also not settleable.
	empty := occupiedTable(t, db, 2, "Castro")
	_, err = svc.Settle(empty.ID)
	assert.ErrorIs(t, err, ErrNothingToSettle)
}

func TestSettleCountsExtrasIntoTotal(t *testing.T) {
	db := setupSettlementDB(t)
	svc := NewSettlementService(db)

	table := occupiedTable(t, db, 9, "Flores")
	db.Create(&models.OrderLine{
		LineID: uuid.NewString(), TableID: table.ID, Kind: models.LineFood,
		Name: "Milanesa", UnitPrice: 7.50, Quantity: 2, Extra: 0.50, Note: "extra queso",
	})

	result, err := svc.Settle(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, 16.00, result.Total)
	assert.Equal(t, 16.00, result.History.Lines[0].Subtotal)
}
