package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/router"
	"github.com/laselecta/mesa-manager/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main service flow:
// 0. Seed admin user, menu, sodas; login -> token
// 1. Create a table, seat a party on it
// 2. Add food and drink lines, confirm to the kitchen
// 3. Kitchen moves the order pending -> in_progress -> completed
// 4. Settle the table: stock drops, history written, table freed
// 5. Daily totals reflect the bill
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	token := login(t, r, "admin@laselecta.hn", "secret123")

	tableID := createTable(t, r, token)
	seatParty(t, r, token, tableID)

	orderFood(t, r, token, tableID, 1) // Milanesa x2
	orderDrink(t, r, token, tableID, 1)
	kitchenOrderID := confirmOrder(t, r, token, tableID)

	advanceKitchen(t, r, token, kitchenOrderID, "in_progress")
	advanceKitchen(t, r, token, kitchenOrderID, "completed")

	total := settleTable(t, r, token, tableID)
	if total != 16.50 {
		t.Fatalf("expected settlement total 16.50, got %v", total)
	}

	var soda models.Soda
	db.First(&soda, 1)
	if soda.Quantity != 9 {
		t.Fatalf("expected stock 9 after settlement, got %d", soda.Quantity)
	}

	var table models.Table
	db.First(&table, tableID)
	if table.Status != models.TableFree {
		t.Fatalf("expected table to be free after settlement, got %s", table.Status)
	}

	checkDailyTotal(t, r, token, total)
}

// TestGlobalRateLimiter hammers an unauthenticated route and expects the
// per-IP limiter wired into the router to start rejecting.
func TestGlobalRateLimiter(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	limited := false
	for i := 0; i < 60; i++ {
		w := request(t, r, http.MethodGet, "/ping", "", nil)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("expected the global rate limiter to reject within 60 requests")
	}
}

// setupIntegrationDB -> in-memory SQLite with every model migrated plus a
// seed admin and small catalog.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Table{},
		&models.OrderLine{},
		&models.MenuItem{},
		&models.Soda{},
		&models.OrderHistory{},
		&models.KitchenOrder{},
		&models.DailyTotal{},
		&models.DailySale{},
		&models.Expense{},
		&models.CashRegister{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	admin := models.User{Name: "Admin", Email: "admin@laselecta.hn", Password: string(hashed)}
	db.Create(&admin)
	db.Create(&models.UserRole{UserID: admin.ID, Role: models.RoleAdmin})

	db.Create(&models.MenuItem{Name: "Milanesa", Price: 7.50, Station: models.StationInsideKitchen})
	db.Create(&models.Soda{Name: "Coca Cola", Brand: "Coca Cola", Quantity: 10, Price: 1.50})

	return db
}

func request(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %q", w.Body.String())
	}
	return data
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	w := request(t, r, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeData(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func createTable(t *testing.T, r *gin.Engine, token string) uint {
	w := request(t, r, http.MethodPost, "/api/admin/tables", token, map[string]interface{}{
		"number":   3,
		"capacity": 4,
		"shape":    "round",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create table failed with %d: %s", w.Code, w.Body.String())
	}
	return uint(decodeData(t, w)["id"].(float64))
}

func seatParty(t *testing.T, r *gin.Engine, token string, tableID uint) {
	url := fmt.Sprintf("/api/tables/%d", tableID)
	w := request(t, r, http.MethodPatch, url, token, map[string]interface{}{
		"status":        "occupied",
		"customer_name": "Lopez",
		"party_size":    2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("seating failed with %d: %s", w.Code, w.Body.String())
	}
}

func orderFood(t *testing.T, r *gin.Engine, token string, tableID uint, menuItemID uint) {
	url := fmt.Sprintf("/api/tables/%d/lines/food", tableID)
	w := request(t, r, http.MethodPost, url, token, map[string]interface{}{
		"menu_item_id": menuItemID,
		"quantity":     2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("food order failed with %d: %s", w.Code, w.Body.String())
	}
}

func orderDrink(t *testing.T, r *gin.Engine, token string, tableID uint, sodaID uint) {
	url := fmt.Sprintf("/api/tables/%d/lines/drinks", tableID)
	w := request(t, r, http.MethodPost, url, token, map[string]interface{}{
		"soda_id":  sodaID,
		"quantity": 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("drink order failed with %d: %s", w.Code, w.Body.String())
	}
}

func confirmOrder(t *testing.T, r *gin.Engine, token string, tableID uint) uint {
	url := fmt.Sprintf("/api/tables/%d/confirm", tableID)
	w := request(t, r, http.MethodPost, url, token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm failed with %d: %s", w.Code, w.Body.String())
	}
	return uint(decodeData(t, w)["id"].(float64))
}

func advanceKitchen(t *testing.T, r *gin.Engine, token string, orderID uint, status string) {
	url := fmt.Sprintf("/api/kitchen/orders/%d/status", orderID)
	w := request(t, r, http.MethodPatch, url, token, map[string]string{"status": status})
	if w.Code != http.StatusOK {
		t.Fatalf("kitchen advance to %s failed with %d: %s", status, w.Code, w.Body.String())
	}
}

func settleTable(t *testing.T, r *gin.Engine, token string, tableID uint) float64 {
	url := fmt.Sprintf("/api/tables/%d/settle", tableID)
	w := request(t, r, http.MethodPost, url, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("settlement failed with %d: %s", w.Code, w.Body.String())
	}
	return decodeData(t, w)["total"].(float64)
}

func checkDailyTotal(t *testing.T, r *gin.Engine, token string, expected float64) {
	w := request(t, r, http.MethodGet, "/api/accounting/daily", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("daily totals failed with %d: %s", w.Code, w.Body.String())
	}
	sum := decodeData(t, w)["sum"].(float64)
	if sum != expected {
		t.Fatalf("expected daily sum %v, got %v", expected, sum)
	}
}
