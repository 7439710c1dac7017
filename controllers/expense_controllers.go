package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// ExpenseController covers the expense ledger and the cash drawer.
type ExpenseController struct {
	DB *gorm.DB
}

func NewExpenseController(db *gorm.DB) *ExpenseController {
	return &ExpenseController{DB: db}
}

// GetExpenses -> expenses for one date (defaults to today).
func (ec *ExpenseController) GetExpenses(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	var expenses []models.Expense
	if err := ec.DB.Where("date = ?", date).Order("created_at DESC").Find(&expenses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}

	utils.RespondJSON(c, http.StatusOK, "Expenses for "+date, gin.H{
		"expenses": expenses,
		"total":    total,
	})
}

func (ec *ExpenseController) CreateExpense(c *gin.Context) {
	var req struct {
		Date        string  `json:"date"`
		Amount      float64 `json:"amount" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be positive"))
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	category := req.Category
	if category == "" {
		category = "General"
	}

	expense := models.Expense{
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    category,
	}
	if err := ec.DB.Create(&expense).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Expense recorded: %s (%s)", expense.Description, utils.FormatCurrency(expense.Amount))
	utils.RespondJSON(c, http.StatusCreated, "Expense recorded", expense)
}

func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	var expense models.Expense
	if err := ec.DB.First(&expense, c.Param("expense_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := ec.DB.Delete(&expense).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expense deleted", gin.H{"id": expense.ID})
}

// GetCashRegister -> the drawer row for one date (defaults to today).
func (ec *ExpenseController) GetCashRegister(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	var register models.CashRegister
	if err := ec.DB.Where("date = ?", date).First(&register).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondJSON(c, http.StatusOK, "No cash register for "+date, nil)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cash register for "+date, register)
}

// OpenCashRegister -> records the opening amount for a date; one row per
// date, a second open on the same date is rejected.
func (ec *ExpenseController) OpenCashRegister(c *gin.Context) {
	var req struct {
		Date          string  `json:"date"`
		OpeningAmount float64 `json:"opening_amount" binding:"required"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.OpeningAmount < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("opening amount cannot be negative"))
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	var count int64
	ec.DB.Model(&models.CashRegister{}).Where("date = ?", date).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("cash register already opened for %s", date))
		return
	}

	register := models.CashRegister{
		Date:          date,
		OpeningAmount: req.OpeningAmount,
		Notes:         req.Notes,
	}
	if err := ec.DB.Create(&register).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Cash register opened for %s with %s", date, utils.FormatCurrency(register.OpeningAmount))
	utils.RespondJSON(c, http.StatusCreated, "Cash register opened", register)
}

// CloseCashRegister -> stamps the closing amount on the date's drawer row.
func (ec *ExpenseController) CloseCashRegister(c *gin.Context) {
	var req struct {
		Date          string  `json:"date"`
		ClosingAmount float64 `json:"closing_amount" binding:"required"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	var register models.CashRegister
	if err := ec.DB.Where("date = ?", date).First(&register).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("no cash register opened for %s", date))
		return
	}

	register.ClosingAmount = &req.ClosingAmount
	if req.Notes != "" {
		register.Notes = req.Notes
	}
	if err := ec.DB.Save(&register).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cash register closed", register)
}
