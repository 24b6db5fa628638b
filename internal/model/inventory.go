package model

import "time"

// InventoryItem is a kitchen stock line.
type InventoryItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HostelID  int64     `json:"hostelId" gorm:"index;not null"`
	ItemName  string    `json:"itemName" gorm:"size:128;not null"`
	Quantity  float64   `json:"quantity" gorm:"not null"`
	Unit      string    `json:"unit" gorm:"size:16"`
	UpdatedAt time.Time `json:"lastUpdated"`
	CreatedAt time.Time `json:"-"`
}

// IsLowStock reports whether the item is at or below threshold.
func (i InventoryItem) IsLowStock(threshold float64) bool {
	return i.Quantity <= threshold
}

// Low-stock threshold bounds shared by the backend and the console.
const (
	DefaultLowStockThreshold = 10
	MaxLowStockThreshold     = 50
)
