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

// BillingController handles quick billing: walk-in sales priced and settled
// without a table.
type BillingController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{
		DB:      db,
		Billing: services.NewBillingService(db),
	}
}

func (bc *BillingController) QuickBill(c *gin.Context) {
	var req struct {
		CustomerName string                   `json:"customer_name"`
		Items        []services.QuickBillItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := bc.Billing.QuickBill(req.CustomerName, req.Items)
	if err != nil {
		if errors.Is(err, services.ErrEmptyBill) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastDailyTotal(result.DailyTotal)

	utils.InfoLogger.Printf("Quick bill %s processed: %s", result.InvoiceNumber, utils.FormatCurrency(result.Total))
	utils.RespondJSON(c, http.StatusCreated, "Bill processed", result)
}

// GetSaleInvoice -> the printable PDF invoice for one quick sale.
func (bc *BillingController) GetSaleInvoice(c *gin.Context) {
	var sale models.DailySale
	if err := bc.DB.First(&sale, c.Param("sale_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	pdf, err := services.BuildInvoicePDF(services.InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV/%s/Q%05d", sale.CreatedAt.Format("20060102"), sale.ID),
		TableNumber:   sale.TableNumber,
		Lines:         sale.Lines,
		Total:         sale.Total,
		Date:          sale.CreatedAt,
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetSales -> quick sales for one date (defaults to today).
func (bc *BillingController) GetSales(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	var sales []models.DailySale
	if err := bc.DB.Where("sale_date = ?", date).Order("created_at DESC").Find(&sales).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Quick sales for "+date, sales)
}
