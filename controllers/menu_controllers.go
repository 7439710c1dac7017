package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func validStation(s models.KitchenStation) bool {
	switch s {
	case models.StationBuffet, models.StationInsideKitchen, models.StationOutsideKitchen:
		return true
	}
	return false
}

// GetAllMenus -> dishes grouped by kitchen station.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	grouped := make(map[models.KitchenStation][]models.MenuItem)
	for _, item := range items {
		grouped[item.Station] = append(grouped[item.Station], item)
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", gin.H{
		"items":      items,
		"by_station": grouped,
	})
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		Name    string                `json:"name" binding:"required"`
		Price   float64               `json:"price" binding:"required"`
		Station models.KitchenStation `json:"station"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
		return
	}

	station := req.Station
	if station == "" {
		station = models.StationBuffet
	}
	if !validStation(station) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown kitchen station %q", req.Station))
		return
	}

	item := models.MenuItem{
		Name:    req.Name,
		Price:   req.Price,
		Station: station,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New dish added: %s (%s)", item.Name, utils.FormatCurrency(item.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenu -> edits the catalog row only. Lines already on tables copied
// the old name and price by value and keep them.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name    *string                `json:"name"`
		Price   *float64               `json:"price"`
		Station *models.KitchenStation `json:"station"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
			return
		}
		item.Price = *req.Price
	}
	if req.Station != nil {
		if !validStation(*req.Station) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown kitchen station %q", *req.Station))
			return
		}
		item.Station = *req.Station
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenu -> removes the dish from the catalog and from every open order
// that still references it.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Dish removed: %s", item.Name)
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": item.ID})
}
