package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
)

var ErrEmptyBill = errors.New("bill has no items")

// QuickBillItem is one catalog reference on a walk-in bill: exactly one of
// MenuItemID or SodaID is set.
type QuickBillItem struct {
	MenuItemID *uint `json:"menu_item_id,omitempty"`
	SodaID     *uint `json:"soda_id,omitempty"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// QuickBillResult mirrors SettlementResult for table-less sales.
type QuickBillResult struct {
	Total         float64           `json:"total"`
	InvoiceNumber string            `json:"invoice_number"`
	Sale          models.DailySale  `json:"sale"`
	DailyTotal    models.DailyTotal `json:"daily_total"`
	LineErrors    []LineError       `json:"line_errors,omitempty"`
}

// BillingService settles walk-in sales that have no table behind them.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

// QuickBill prices the referenced catalog rows, appends a DailySale record,
// decrements drink stock, and adds the total to today's running sum —
// all inside one transaction, with the same skip-and-report policy for
// unsatisfiable drink items that table settlement uses.
func (b *BillingService) QuickBill(customerName string, items []QuickBillItem) (*QuickBillResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBill
	}

	result := &QuickBillResult{}

	err := b.DB.Transaction(func(tx *gorm.DB) error {
		var lines models.SnapshotLines

		for _, item := range items {
			switch {
			case item.MenuItemID != nil:
				var dish models.MenuItem
				if err := tx.First(&dish, *item.MenuItemID).Error; err != nil {
					result.LineErrors = append(result.LineErrors, LineError{
						Name:   fmt.Sprintf("menu item %d", *item.MenuItemID),
						Reason: "menu item not found",
					})
					continue
				}
				lines = append(lines, models.SnapshotLine{
					LineID:    uuid.NewString(),
					Kind:      models.LineFood,
					Name:      dish.Name,
					UnitPrice: dish.Price,
					Quantity:  item.Quantity,
					Subtotal:  dish.Price * float64(item.Quantity),
				})

			case item.SodaID != nil:
				var soda models.Soda
				if err := tx.First(&soda, *item.SodaID).Error; err != nil {
					result.LineErrors = append(result.LineErrors, LineError{
						Name:   fmt.Sprintf("soda %d", *item.SodaID),
						Reason: "inventory row not found",
					})
					continue
				}
				if soda.Quantity < item.Quantity {
					result.LineErrors = append(result.LineErrors, LineError{
						Name:   soda.Name,
						Reason: fmt.Sprintf("insufficient stock: %d on hand, %d ordered", soda.Quantity, item.Quantity),
					})
					continue
				}
				if err := tx.Model(&soda).Update("quantity", soda.Quantity-item.Quantity).Error; err != nil {
					return err
				}
				lines = append(lines, models.SnapshotLine{
					LineID:    uuid.NewString(),
					Kind:      models.LineDrink,
					Name:      soda.Name,
					UnitPrice: soda.Price,
					Quantity:  item.Quantity,
					Subtotal:  soda.Price * float64(item.Quantity),
				})

			default:
				result.LineErrors = append(result.LineErrors, LineError{
					Reason: "item references neither a dish nor a drink",
				})
			}
		}

		if len(lines) == 0 {
			return ErrEmptyBill
		}

		for _, line := range lines {
			result.Total += line.Subtotal
		}

		today := time.Now().Format(models.DateLayout)
		sale := models.DailySale{
			SaleDate:     today,
			CustomerName: customerName,
			Lines:        lines,
			Total:        result.Total,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		result.Sale = sale
		result.InvoiceNumber = fmt.Sprintf("INV/%s/Q%05d", sale.CreatedAt.Format("20060102"), sale.ID)

		dailyTotal, err := addToDailyTotal(tx, today, result.Total)
		if err != nil {
			return err
		}
		result.DailyTotal = dailyTotal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
