package models

// Recipe is one bill-of-materials line: Quantity units of the ingredient
// go into one unit of the product.
type Recipe struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ProductID    uint    `gorm:"not null;index" json:"product_id"`
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64 `gorm:"not null" json:"quantity"`
}
