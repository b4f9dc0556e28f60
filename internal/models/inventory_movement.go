package models

import "time"

type MovementType string

const (
	MovementCarico  MovementType = "carico"  // stock-in
	MovementScarico MovementType = "scarico" // stock-out
)

func (t MovementType) Valid() bool {
	return t == MovementCarico || t == MovementScarico
}

type InventoryMovement struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	IngredientID uint         `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64      `gorm:"not null" json:"quantity"`
	MovementType MovementType `gorm:"size:20;not null" json:"movement_type"`
	Timestamp    time.Time    `gorm:"not null" json:"timestamp"`
}
