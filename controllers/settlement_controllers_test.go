package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/controllers"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

func setupHistoryRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.OrderHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	settleCtrl := controllers.NewSettlementController(db)
	router.GET("/history", settleCtrl.GetOrderHistory)
	return db, router
}

func TestGetOrderHistoryDateFilterCoversWholeDay(t *testing.T) {
	db, router := setupHistoryRouter(t)

	db.Create(&models.OrderHistory{
		TableID: 1, TableNumber: 1, Total: 5.00,
		CreatedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	})
	db.Create(&models.OrderHistory{
		TableID: 2, TableNumber: 2, Total: 7.00,
		CreatedAt: time.Date(2024, 5, 10, 23, 59, 59, 999500000, time.UTC),
	})
	db.Create(&models.OrderHistory{
		TableID: 3, TableNumber: 3, Total: 9.00,
		CreatedAt: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
	})

	w := doJSON(t, router, "GET", "/history?date=2024-05-10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	records := response["data"].([]interface{})
	assert.Len(t, records, 2)
}

func TestGetOrderHistoryRejectsBadDate(t *testing.T) {
	_, router := setupHistoryRouter(t)

	w := doJSON(t, router, "GET", "/history?date=May-10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
