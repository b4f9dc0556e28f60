package models

import "time"

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	RiderID   *uint     `gorm:"index" json:"rider_id"` // nil: no delivery
	Price     float64   `gorm:"not null" json:"price"` // line total, not unit price
}

// ProductOrderTotals is one row of the orders grouped by product.
type ProductOrderTotals struct {
	ProductID     uint    `gorm:"column:product_id"`
	TotalPrice    float64 `gorm:"column:total_price"`
	TotalQuantity int64   `gorm:"column:total_quantity"`
}
