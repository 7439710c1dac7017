package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laselecta/mesa-manager/models"
)

var (
	ErrTableNotFound   = errors.New("table not found")
	ErrNothingToSettle = errors.New("table has no open order")
)

// LineError reports one drink line settlement could not satisfy.
type LineError struct {
	LineID string `json:"line_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SettlementResult is what a finished settlement hands back to the caller.
type SettlementResult struct {
	Total         float64             `json:"total"`
	InvoiceNumber string              `json:"invoice_number"`
	History       models.OrderHistory `json:"history"`
	DailyTotal    models.DailyTotal   `json:"daily_total"`
	LineErrors    []LineError         `json:"line_errors,omitempty"`
	Table         models.Table        `json:"table"`
}

// SettlementService finalizes a table's bill: total, stock decrement,
// history snapshot, daily-total upsert, table reset.
type SettlementService struct {
	DB *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{DB: db}
}

// Settle runs the whole settlement inside one database transaction, so the
// ledger never holds a half-applied settlement. Drink lines whose inventory
// row is missing or short are skipped and reported; they do not abort the
// history snapshot, the daily total, or the table reset, and stock never
// goes negative.
func (s *SettlementService) Settle(tableID uint) (*SettlementResult, error) {
	result := &SettlementResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Preload("Lines").First(&table, tableID).Error; err != nil {
			return ErrTableNotFound
		}
		if table.Status == models.TableFree || len(table.Lines) == 0 {
			return ErrNothingToSettle
		}

		result.Total = table.OrderTotal()

		for _, line := range table.Lines {
			if line.Kind != models.LineDrink {
				continue
			}
			if err := s.consumeStock(tx, line, result); err != nil {
				return err
			}
		}

		history := models.OrderHistory{
			TableID:     table.ID,
			TableNumber: table.Number,
			Lines:       snapshot(table.Lines),
			Total:       result.Total,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		result.History = history
		result.InvoiceNumber = fmt.Sprintf("INV/%s/%06d", history.CreatedAt.Format("20060102"), history.ID)

		dailyTotal, err := addToDailyTotal(tx, time.Now().Format(models.DateLayout), result.Total)
		if err != nil {
			return err
		}
		result.DailyTotal = dailyTotal

		if err := resetTable(tx, &table); err != nil {
			return err
		}
		result.Table = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// consumeStock decrements the inventory row behind one drink line. A missing
// row or insufficient stock is recorded as a line error, never as a negative
// quantity.
func (s *SettlementService) consumeStock(tx *gorm.DB, line models.OrderLine, result *SettlementResult) error {
	if line.SodaID == nil {
		result.LineErrors = append(result.LineErrors, LineError{
			LineID: line.LineID,
			Name:   line.Name,
			Reason: "no inventory reference",
		})
		return nil
	}

	var soda models.Soda
	if err := tx.First(&soda, *line.SodaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.LineErrors = append(result.LineErrors, LineError{
				LineID: line.LineID,
				Name:   line.Name,
				Reason: "inventory row not found",
			})
			return nil
		}
		return err
	}

	if soda.Quantity < line.Quantity {
		result.LineErrors = append(result.LineErrors, LineError{
			LineID: line.LineID,
			Name:   line.Name,
			Reason: fmt.Sprintf("insufficient stock: %d on hand, %d ordered", soda.Quantity, line.Quantity),
		})
		return nil
	}

	return tx.Model(&soda).Update("quantity", soda.Quantity-line.Quantity).Error
}

// addToDailyTotal adds amount to the date's running total, creating the row
// when the date has no sales yet.
func addToDailyTotal(tx *gorm.DB, date string, amount float64) (models.DailyTotal, error) {
	row := models.DailyTotal{Date: date, Total: amount}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total":      gorm.Expr("total + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return models.DailyTotal{}, err
	}

	var current models.DailyTotal
	if err := tx.Where("date = ?", date).First(&current).Error; err != nil {
		return models.DailyTotal{}, err
	}
	return current, nil
}

// resetTable returns a table to free: no customer, no occupation time, no
// order lines.
func resetTable(tx *gorm.DB, table *models.Table) error {
	if err := tx.Where("table_id = ?", table.ID).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":        models.TableFree,
		"customer_name": "",
		"party_size":    0,
		"occupied_at":   nil,
	}
	if err := tx.Model(table).Updates(updates).Error; err != nil {
		return err
	}

	table.Status = models.TableFree
	table.CustomerName = ""
	table.PartySize = 0
	table.OccupiedAt = nil
	table.Lines = nil
	return nil
}

func snapshot(lines []models.OrderLine) models.SnapshotLines {
	out := make(models.SnapshotLines, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.SnapshotLine{
			LineID:    line.LineID,
			Kind:      line.Kind,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Note:      line.Note,
			Extra:     line.Extra,
			Subtotal:  line.Subtotal(),
		})
	}
	return out
}
