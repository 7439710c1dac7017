package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/services"
	"github.com/laselecta/mesa-manager/utils"
)

type SettlementController struct {
	DB         *gorm.DB
	Settlement *services.SettlementService
}

func NewSettlementController(db *gorm.DB) *SettlementController {
	return &SettlementController{
		DB:         db,
		Settlement: services.NewSettlementService(db),
	}
}

// SettleTable -> "pay and free": totals the bill, decrements drink stock,
// snapshots the order into history, adds to today's total, and frees the
// table. Drink lines settlement could not satisfy come back in line_errors.
func (sc *SettlementController) SettleTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := sc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	result, err := sc.Settlement.Settle(table.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNothingToSettle):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	kds.BroadcastSettlement(result.History)
	kds.BroadcastTableUpdate(result.Table)
	kds.BroadcastDailyTotal(result.DailyTotal)

	utils.InfoLogger.Printf("Table #%d settled: %s (%d line errors)",
		result.Table.Number, utils.FormatCurrency(result.Total), len(result.LineErrors))
	utils.RespondJSON(c, http.StatusOK, "Table settled", result)
}

// GetOrderHistory -> settlement snapshots, newest first.
func (sc *SettlementController) GetOrderHistory(c *gin.Context) {
	var history []models.OrderHistory
	query := sc.DB.Order("created_at DESC")

	if date := c.Query("date"); date != "" {
		day, err := time.Parse(models.DateLayout, date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		nextDay := day.AddDate(0, 0, 1).Format(models.DateLayout)
		query = query.Where("created_at >= ? AND created_at < ?", date+" 00:00:00", nextDay+" 00:00:00")
	}

	if err := query.Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}

// GetInvoice -> the printable PDF invoice for one settled order.
func (sc *SettlementController) GetInvoice(c *gin.Context) {
	historyID := c.Param("history_id")

	var history models.OrderHistory
	if err := sc.DB.First(&history, historyID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	pdf, err := services.BuildInvoicePDF(services.InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV/%s/%06d", history.CreatedAt.Format("20060102"), history.ID),
		TableNumber:   &history.TableNumber,
		Lines:         history.Lines,
		Total:         history.Total,
		Date:          history.CreatedAt,
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdf)
}
