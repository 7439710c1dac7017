package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/controllers"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

func setupTestDBForTables(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.OrderLine{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.GET("/tables/stats", tableCtrl.GetFloorStats)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTable(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	w := doJSON(t, router, "POST", "/tables", gin.H{"number": 4, "capacity": 6, "shape": "rect"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Table created successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["number"])
	assert.Equal(t, "free", data["status"])
}

func TestCreateTableDuplicateNumber(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	db.Create(&models.Table{Number: 4, Capacity: 4, Shape: models.ShapeRound, Status: models.TableFree})

	w := doJSON(t, router, "POST", "/tables", gin.H{"number": 4, "capacity": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Nothing got written.
	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateTableRejectsBadInput(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	w := doJSON(t, router, "POST", "/tables", gin.H{"number": -1, "capacity": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/tables", gin.H{"number": 5, "capacity": 4, "shape": "triangle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTableToOccupied(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	table := models.Table{Number: 1, Capacity: 4, Shape: models.ShapeRound, Status: models.TableFree}
	db.Create(&table)

	url := "/tables/" + strconv.Itoa(int(table.ID))

	// Occupying without a customer name is rejected.
	w := doJSON(t, router, "PATCH", url, gin.H{"status": "occupied"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PATCH", url, gin.H{"status": "occupied", "customer_name": "Lopez", "party_size": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Table
	db.First(&fresh, table.ID)
	assert.Equal(t, models.TableOccupied, fresh.Status)
	assert.Equal(t, "Lopez", fresh.CustomerName)
	assert.NotNil(t, fresh.OccupiedAt)

	// Re-applying the same payload leaves the same state, including the
	// original occupation time.
	firstStamp := *fresh.OccupiedAt
	w = doJSON(t, router, "PATCH", url, gin.H{"status": "occupied", "customer_name": "Lopez", "party_size": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&fresh, table.ID)
	assert.NotNil(t, fresh.OccupiedAt)
	assert.WithinDuration(t, firstStamp, *fresh.OccupiedAt, 0)
}

func TestUpdateTableBackToFreeClearsLines(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	table := models.Table{Number: 2, Capacity: 4, Shape: models.ShapeSquare, Status: models.TableOccupied, CustomerName: "Garcia"}
	db.Create(&table)
	db.Create(&models.OrderLine{LineID: "line-1", TableID: table.ID, Kind: models.LineFood, Name: "Milanesa", UnitPrice: 7.50, Quantity: 1})

	url := "/tables/" + strconv.Itoa(int(table.ID))
	w := doJSON(t, router, "PATCH", url, gin.H{"status": "free"})
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Table
	db.Preload("Lines").First(&fresh, table.ID)
	assert.Equal(t, models.TableFree, fresh.Status)
	assert.Empty(t, fresh.CustomerName)
	assert.Empty(t, fresh.Lines)
}

func TestGetFloorStats(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	db.Create(&models.Table{Number: 1, Capacity: 4, Status: models.TableFree})
	db.Create(&models.Table{Number: 2, Capacity: 4, Status: models.TableOccupied, CustomerName: "Lopez"})
	db.Create(&models.Table{Number: 3, Capacity: 4, Status: models.TableReserved, CustomerName: "Perez"})

	w := doJSON(t, router, "GET", "/tables/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["free"])
	assert.Equal(t, float64(1), data["occupied"])
	assert.Equal(t, float64(1), data["reserved"])
	assert.Equal(t, float64(3), data["total"])
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	table := models.Table{Number: 8, Capacity: 4, Status: models.TableFree}
	db.Create(&table)

	w := doJSON(t, router, "DELETE", "/tables/"+strconv.Itoa(int(table.ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(0), count)

	w = doJSON(t, router, "DELETE", "/tables/"+strconv.Itoa(int(table.ID)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
