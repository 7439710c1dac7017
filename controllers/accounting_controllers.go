package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// AccountingController is the read side of the ledger: per-day totals over a
// range, a drill-down into one day, a chart series, and monthly summaries.
// Every request hits the database fresh; nothing is cached between renders.
type AccountingController struct {
	DB *gorm.DB
}

func NewAccountingController(db *gorm.DB) *AccountingController {
	return &AccountingController{DB: db}
}

func parseDateRange(c *gin.Context) (string, string, error) {
	start := c.Query("start")
	end := c.Query("end")

	// Default window is the last 7 days.
	if start == "" && end == "" {
		now := time.Now()
		return now.AddDate(0, 0, -7).Format(models.DateLayout), now.Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, start); err != nil {
		return "", "", errors.New("start must be YYYY-MM-DD")
	}
	if _, err := time.Parse(models.DateLayout, end); err != nil {
		return "", "", errors.New("end must be YYYY-MM-DD")
	}
	if end < start {
		return "", "", errors.New("end is before start")
	}
	return start, end, nil
}

// GetDailyTotals -> DailyTotal rows in [start, end], ordered by date.
// A window with no settlements yields an empty list, not an error.
func (ac *AccountingController) GetDailyTotals(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var totals []models.DailyTotal
	if err := ac.DB.Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").Find(&totals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var sum float64
	for _, t := range totals {
		sum += t.Total
	}

	utils.RespondJSON(c, http.StatusOK, "Daily totals", gin.H{
		"start":  start,
		"end":    end,
		"totals": totals,
		"sum":    sum,
	})
}

// ItemBreakdown is one row of the same-day itemized summary.
type ItemBreakdown struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GetDayDetail -> one date's total, its settled orders, and an itemized
// breakdown grouped by item name.
func (ac *AccountingController) GetDayDetail(c *gin.Context) {
	date := c.Param("date")
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}
	nextDay := day.AddDate(0, 0, 1).Format(models.DateLayout)

	var dayTotal models.DailyTotal
	if err := ac.DB.Where("date = ?", date).First(&dayTotal).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		dayTotal = models.DailyTotal{Date: date, Total: 0}
	}

	var history []models.OrderHistory
	if err := ac.DB.Where("created_at >= ? AND created_at < ?", date+" 00:00:00", nextDay+" 00:00:00").
		Order("created_at DESC").Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Group quantity and revenue by item name across every settled order.
	byName := make(map[string]*ItemBreakdown)
	for _, record := range history {
		for _, line := range record.Lines {
			entry, ok := byName[line.Name]
			if !ok {
				entry = &ItemBreakdown{Name: line.Name}
				byName[line.Name] = entry
			}
			entry.Quantity += line.Quantity
			entry.Revenue += line.Subtotal
		}
	}

	breakdown := make([]ItemBreakdown, 0, len(byName))
	for _, entry := range byName {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Revenue > breakdown[j].Revenue
	})

	utils.RespondJSON(c, http.StatusOK, "Day detail", gin.H{
		"date":      date,
		"total":     dayTotal.Total,
		"orders":    history,
		"breakdown": breakdown,
	})
}

// GetDailyChart -> PNG bar chart of the per-day totals in range.
func (ac *AccountingController) GetDailyChart(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var totals []models.DailyTotal
	if err := ac.DB.Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Find(&totals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if len(totals) == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("no sales in range"))
		return
	}

	bars := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		bars = append(bars, chart.Value{Label: t.Date[5:], Value: t.Total})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Ventas diarias %s / %s", start, end),
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
	}

	c.Header("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error rendering daily chart: %v", err)
	}
}

// GetMonthlySummary -> per-day rows for one month plus sales and expense
// sums. Month format is YYYY-MM; defaults to the current month.
func (ac *AccountingController) GetMonthlySummary(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	firstDay, err := time.Parse("2006-01", month)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("month must be YYYY-MM"))
		return
	}
	start := firstDay.Format(models.DateLayout)
	end := firstDay.AddDate(0, 1, -1).Format(models.DateLayout)

	var totals []models.DailyTotal
	if err := ac.DB.Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Find(&totals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var salesSum float64
	for _, t := range totals {
		salesSum += t.Total
	}

	var expenseSum float64
	ac.DB.Model(&models.Expense{}).
		Where("date >= ? AND date <= ?", start, end).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&expenseSum)

	utils.RespondJSON(c, http.StatusOK, "Monthly summary", gin.H{
		"month":    month,
		"days":     totals,
		"sales":    salesSum,
		"expenses": expenseSum,
		"net":      salesSum - expenseSum,
	})
}
