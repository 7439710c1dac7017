package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/services"
	"github.com/laselecta/mesa-manager/utils"
)

type SodaController struct {
	DB *gorm.DB
}

func NewSodaController(db *gorm.DB) *SodaController {
	return &SodaController{DB: db}
}

func (sc *SodaController) GetAllSodas(c *gin.Context) {
	var sodas []models.Soda
	if err := sc.DB.Order("name ASC").Find(&sodas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Drink inventory", sodas)
}

func (sc *SodaController) CreateSoda(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Brand    string  `json:"brand"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity < 0 || req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity and price cannot be negative"))
		return
	}

	soda := models.Soda{
		Name:     req.Name,
		Brand:    req.Brand,
		Quantity: req.Quantity,
		Price:    req.Price,
	}
	if err := sc.DB.Create(&soda).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastInventoryUpdate(soda)

	utils.InfoLogger.Printf("Soda added to inventory: %s (qty=%d)", soda.Name, soda.Quantity)
	utils.RespondJSON(c, http.StatusCreated, "Soda created", soda)
}

func (sc *SodaController) GetSodaByID(c *gin.Context) {
	var soda models.Soda
	if err := sc.DB.First(&soda, c.Param("soda_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Soda detail", soda)
}

func (sc *SodaController) UpdateSoda(c *gin.Context) {
	var soda models.Soda
	if err := sc.DB.First(&soda, c.Param("soda_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		Brand    *string  `json:"brand"`
		Quantity *int     `json:"quantity"`
		Price    *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		soda.Name = *req.Name
	}
	if req.Brand != nil {
		soda.Brand = *req.Brand
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("quantity cannot be negative"))
			return
		}
		soda.Quantity = *req.Quantity
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
			return
		}
		soda.Price = *req.Price
	}

	if err := sc.DB.Save(&soda).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	kds.BroadcastInventoryUpdate(soda)
	utils.RespondJSON(c, http.StatusOK, "Soda updated", soda)
}

func (sc *SodaController) DeleteSoda(c *gin.Context) {
	var soda models.Soda
	if err := sc.DB.First(&soda, c.Param("soda_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := sc.DB.Delete(&soda).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Soda removed from inventory: %s", soda.Name)
	utils.RespondJSON(c, http.StatusOK, "Soda deleted", gin.H{"id": soda.ID})
}

// GetLowStock -> sodas at or below the alert threshold.
func (sc *SodaController) GetLowStock(c *gin.Context) {
	threshold := services.DefaultLowStockThreshold
	if q := c.Query("threshold"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("threshold must be a non-negative integer"))
			return
		}
		threshold = v
	}

	var sodas []models.Soda
	if err := sc.DB.Where("quantity <= ?", threshold).Order("quantity ASC").Find(&sodas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock sodas", sodas)
}
