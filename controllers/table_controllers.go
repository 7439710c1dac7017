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
	"github.com/laselecta/mesa-manager/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> adds a table to the floor plan. Duplicate numbers and
// non-positive number/capacity are rejected before anything is written.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int               `json:"number" binding:"required"`
		Capacity int               `json:"capacity" binding:"required"`
		Shape    models.TableShape `json:"shape"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Number <= 0 || req.Capacity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("number and capacity must be positive"))
		return
	}

	shape := req.Shape
	switch shape {
	case models.ShapeRound, models.ShapeSquare, models.ShapeRect:
	case "":
		shape = models.ShapeRound
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown shape %q", req.Shape))
		return
	}

	var count int64
	tc.DB.Model(&models.Table{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table number %d already exists", req.Number))
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Shape:    shape,
		Status:   models.TableFree,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableCreate(table)

	utils.InfoLogger.Printf("New table created: #%d (capacity=%d, shape=%s)", table.Number, table.Capacity, table.Shape)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> the floor plan with open order lines attached.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Preload("Lines").Order("number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> one table with its lines and running total.
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.Preload("Lines").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table": table,
		"total": table.OrderTotal(),
	})
}

// UpdateTable -> merges a partial update into the table. Moving back to free
// clears the customer and every order line as part of the same call; moving
// to occupied/reserved requires a customer and stamps occupied_at.
// Applying the same payload twice leaves the same final state.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var req struct {
		Status       *models.TableStatus `json:"status"`
		Capacity     *int                `json:"capacity"`
		Shape        *models.TableShape  `json:"shape"`
		CustomerName *string             `json:"customer_name"`
		PartySize    *int                `json:"party_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Preload("Lines").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be positive"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.Shape != nil {
		table.Shape = *req.Shape
	}
	if req.CustomerName != nil {
		table.CustomerName = *req.CustomerName
	}
	if req.PartySize != nil {
		table.PartySize = *req.PartySize
	}

	if req.Status != nil {
		switch *req.Status {
		case models.TableFree:
			if err := tc.DB.Where("table_id = ?", table.ID).Delete(&models.OrderLine{}).Error; err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
			table.Status = models.TableFree
			table.CustomerName = ""
			table.PartySize = 0
			table.OccupiedAt = nil
			table.Lines = nil

		case models.TableOccupied, models.TableReserved:
			if !table.HasCustomer() {
				utils.RespondError(c, http.StatusBadRequest, errors.New("occupied or reserved tables need a customer name"))
				return
			}
			if *req.Status == models.TableOccupied && table.OccupiedAt == nil {
				now := time.Now()
				table.OccupiedAt = &now
			}
			if *req.Status == models.TableReserved {
				table.OccupiedAt = nil
			}
			table.Status = *req.Status

		default:
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", *req.Status))
			return
		}
	}

	updates := map[string]interface{}{
		"status":        table.Status,
		"capacity":      table.Capacity,
		"shape":         table.Shape,
		"customer_name": table.CustomerName,
		"party_size":    table.PartySize,
		"occupied_at":   table.OccupiedAt,
	}
	if err := tc.DB.Model(&table).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table #%d updated (status=%s)", table.Number, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> hard delete; history is snapshotted elsewhere so nothing
// cascades beyond the table's own open lines.
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Where("table_id = ?", table.ID).Delete(&models.OrderLine{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastTableDelete(table.ID)

	utils.InfoLogger.Printf("Table #%d deleted", table.Number)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// FindTablesByStatus -> e.g. list free tables.
func (tc *TableController) FindTablesByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = string(models.TableFree)
	}
	var tables []models.Table
	if err := tc.DB.Preload("Lines").Where("status = ?", status).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables with status: "+status, tables)
}

// GetFloorStats -> status counts for the floor dashboard.
func (tc *TableController) GetFloorStats(c *gin.Context) {
	var freeCount, occupiedCount, reservedCount int64

	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableFree).Count(&freeCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&occupiedCount)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableReserved).Count(&reservedCount)

	utils.RespondJSON(c, http.StatusOK, "Floor stats", gin.H{
		"free":     freeCount,
		"occupied": occupiedCount,
		"reserved": reservedCount,
		"total":    freeCount + occupiedCount + reservedCount,
	})
}
