package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

type KitchenController struct {
	DB *gorm.DB
}

func NewKitchenController(db *gorm.DB) *KitchenController {
	return &KitchenController{DB: db}
}

// GetOrders -> relayed orders, newest first, optionally filtered by status.
func (kc *KitchenController) GetOrders(c *gin.Context) {
	query := kc.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.KitchenOrder
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen orders", orders)
}

// AdvanceStatus -> moves one order along pending -> in_progress ->
// completed. Any other jump is rejected.
func (kc *KitchenController) AdvanceStatus(c *gin.Context) {
	var order models.KitchenOrder
	if err := kc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Status models.KitchenOrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !order.Status.CanAdvanceTo(req.Status) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot move order from %s to %s", order.Status, req.Status))
		return
	}

	order.Status = req.Status
	if err := kc.DB.Model(&order).Update("status", order.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastKitchenUpdate(order)

	utils.InfoLogger.Printf("Kitchen order #%d for table #%d moved to %s", order.ID, order.TableNumber, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
