package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/kds"
	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// DefaultLowStockThreshold marks a soda as running low.
const DefaultLowStockThreshold = 5

// StockMonitor periodically checks drink inventory and broadcasts a
// low-stock alert whenever the set of low rows changes.
type StockMonitor struct {
	DB        *gorm.DB
	Threshold int
	Interval  time.Duration
	StopChan  chan struct{}

	lastAlerted map[uint]int
}

func NewStockMonitor(db *gorm.DB) *StockMonitor {
	return &StockMonitor{
		DB:          db,
		Threshold:   DefaultLowStockThreshold,
		Interval:    30 * time.Second,
		StopChan:    make(chan struct{}),
		lastAlerted: make(map[uint]int),
	}
}

func (sm *StockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.checkStock()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StockMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *StockMonitor) checkStock() {
	var low []models.Soda
	if err := sm.DB.Where("quantity <= ?", sm.Threshold).Order("quantity ASC").Find(&low).Error; err != nil {
		utils.ErrorLogger.Printf("Stock monitor query failed: %v", err)
		return
	}

	if !sm.changed(low) {
		return
	}

	current := make(map[uint]int, len(low))
	for _, soda := range low {
		current[soda.ID] = soda.Quantity
	}
	sm.lastAlerted = current

	if len(low) > 0 {
		utils.InfoLogger.Printf("Low stock on %d sodas", len(low))
		kds.BroadcastLowStock(low)
	}
}

func (sm *StockMonitor) changed(low []models.Soda) bool {
	if len(low) != len(sm.lastAlerted) {
		return true
	}
	for _, soda := range low {
		if qty, ok := sm.lastAlerted[soda.ID]; !ok || qty != soda.Quantity {
			return true
		}
	}
	return false
}
