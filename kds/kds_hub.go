package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// Event types pushed to connected floor/kitchen/admin clients.
const (
	EventTableCreate      = "table_create"
	EventTableUpdate      = "table_update"
	EventTableDelete      = "table_delete"
	EventKitchenOrder     = "kitchen_order"
	EventKitchenUpdate    = "kitchen_update"
	EventInventoryUpdate  = "inventory_update"
	EventLowStockAlert    = "low_stock_alert"
	EventSettlement       = "settlement"
	EventDailyTotalUpdate = "daily_total_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected websocket client and its role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount reports how many clients are currently connected.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

func BroadcastTableDelete(tableID uint) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"table_id": tableID}})
}

// BroadcastKitchenOrder announces a freshly relayed order to kitchen clients.
func BroadcastKitchenOrder(order models.KitchenOrder) {
	broadcast(Message{Event: EventKitchenOrder, Data: order})
}

// BroadcastKitchenUpdate announces a status advance on an existing order.
func BroadcastKitchenUpdate(order models.KitchenOrder) {
	broadcast(Message{Event: EventKitchenUpdate, Data: order})
}

func BroadcastInventoryUpdate(soda models.Soda) {
	broadcast(Message{Event: EventInventoryUpdate, Data: soda})
}

func BroadcastLowStock(sodas []models.Soda) {
	broadcast(Message{Event: EventLowStockAlert, Data: sodas})
}

func BroadcastSettlement(history models.OrderHistory) {
	broadcast(Message{Event: EventSettlement, Data: history})
}

func BroadcastDailyTotal(total models.DailyTotal) {
	broadcast(Message{Event: EventDailyTotalUpdate, Data: total})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", msg.Event, err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s event to client: %v", msg.Event, err)
		}
	}
}
