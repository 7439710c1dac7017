package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// OrderController is the per-table order editor: it accumulates food and
// drink lines on an occupied table and relays food lines to the kitchen.
type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// loadEditableTable rejects edits on tables that are not occupied.
func (oc *OrderController) loadEditableTable(c *gin.Context) (*models.Table, bool) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := oc.DB.Preload("Lines").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	if table.Status != models.TableOccupied {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table #%d is not occupied", table.Number))
		return nil, false
	}
	return &table, true
}

// AddFoodLine -> copies the dish's name and price into a new line with a
// fresh line id. Two additions of the same dish stay separate lines, so
// different notes and extras never collapse into each other.
func (oc *OrderController) AddFoodLine(c *gin.Context) {
	table, ok := oc.loadEditableTable(c)
	if !ok {
		return
	}

	var req struct {
		MenuItemID uint    `json:"menu_item_id" binding:"required"`
		Quantity   int     `json:"quantity" binding:"required,gt=0"`
		Note       string  `json:"note"`
		Extra      float64 `json:"extra"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Extra < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("extra charge cannot be negative"))
		return
	}

	var dish models.MenuItem
	if err := oc.DB.First(&dish, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	line := models.OrderLine{
		LineID:     uuid.NewString(),
		TableID:    table.ID,
		Kind:       models.LineFood,
		Name:       dish.Name,
		UnitPrice:  dish.Price,
		Quantity:   req.Quantity,
		Note:       req.Note,
		Extra:      req.Extra,
		MenuItemID: &dish.ID,
	}
	if err := oc.DB.Create(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	table.Lines = append(table.Lines, line)
	kds.BroadcastTableUpdate(*table)

	utils.RespondJSON(c, http.StatusCreated, "Dish added to order", gin.H{
		"line":  line,
		"total": table.OrderTotal(),
	})
}

// AddDrinkLine -> copies the soda's name and price onto the bill. Unlike
// dishes, repeat additions of the same drink merge into the existing line.
func (oc *OrderController) AddDrinkLine(c *gin.Context) {
	table, ok := oc.loadEditableTable(c)
	if !ok {
		return
	}

	var req struct {
		SodaID   uint `json:"soda_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var soda models.Soda
	if err := oc.DB.First(&soda, req.SodaID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if soda.Quantity <= 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("no stock available for %s", soda.Name))
		return
	}

	// Merge into an existing line for the same soda when there is one.
	var line models.OrderLine
	err := oc.DB.Where("table_id = ? AND kind = ? AND soda_id = ?", table.ID, models.LineDrink, soda.ID).
		First(&line).Error
	switch {
	case err == nil:
		line.Quantity += req.Quantity
		if err := oc.DB.Model(&line).Update("quantity", line.Quantity).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.OrderLine{
			LineID:    uuid.NewString(),
			TableID:   table.ID,
			Kind:      models.LineDrink,
			Name:      soda.Name,
			UnitPrice: soda.Price,
			Quantity:  req.Quantity,
			SodaID:    &soda.ID,
		}
		if err := oc.DB.Create(&line).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var fresh models.Table
	if err := oc.DB.Preload("Lines").First(&fresh, table.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	kds.BroadcastTableUpdate(fresh)

	utils.RespondJSON(c, http.StatusCreated, "Drink added to order", gin.H{
		"line":  line,
		"total": fresh.OrderTotal(),
	})
}

// RemoveLine -> removes one line by its line id, whichever kind it is.
func (oc *OrderController) RemoveLine(c *gin.Context) {
	table, ok := oc.loadEditableTable(c)
	if !ok {
		return
	}

	lineID := c.Param("line_id")
	res := oc.DB.Where("table_id = ? AND line_id = ?", table.ID, lineID).Delete(&models.OrderLine{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("no line %s on table #%d", lineID, table.Number))
		return
	}

	var fresh models.Table
	if err := oc.DB.Preload("Lines").First(&fresh, table.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	kds.BroadcastTableUpdate(fresh)

	utils.RespondJSON(c, http.StatusOK, "Line removed", gin.H{
		"line_id": lineID,
		"total":   fresh.OrderTotal(),
	})
}

// ConfirmOrder -> saves the current order and relays its food lines to the
// kitchen as one pending kitchen order. Orders with no food line have
// nothing to prepare and are rejected.
func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	table, ok := oc.loadEditableTable(c)
	if !ok {
		return
	}

	var items models.KitchenItems
	for _, line := range table.Lines {
		if line.Kind != models.LineFood {
			continue
		}
		items = append(items, models.KitchenItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Note:     line.Note,
		})
	}
	if len(items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order has no food lines to send to the kitchen"))
		return
	}

	order := models.KitchenOrder{
		TableNumber: table.Number,
		Items:       items,
		Status:      models.KitchenPending,
		CreatedAt:   time.Now(),
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastKitchenOrder(order)

	utils.InfoLogger.Printf("Order for table #%d relayed to kitchen (%d dishes)", table.Number, len(items))
	utils.RespondJSON(c, http.StatusCreated, "Order sent to kitchen", order)
}
