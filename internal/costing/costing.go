// Package costing computes the read-side food-cost figures: food cost per
// product from recipes, gross margin per product from order totals, and
// rider delivery statistics. Every function is a pure computation over the
// snapshot it is handed; nothing here touches storage.
package costing

import (
	"foodcost-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// MissingIngredientCost is the unit cost charged for a recipe line whose
	// ingredient is not in the cost table.
	MissingIngredientCost = 0.0
	// MissingProductCost is the food cost used for an ordered product that
	// has no recipe.
	MissingProductCost = 0.0
	// MissingDeliveryTime is reported for riders without a delivery time.
	MissingDeliveryTime = 0.0

	places = 2
)

type FoodCost struct {
	ProductID uint    `json:"product_id"`
	FoodCost  float64 `json:"food_cost"`
}

type Margin struct {
	ProductID uint    `json:"product_id"`
	AvgPrice  float64 `json:"avg_price"`
	FoodCost  float64 `json:"food_cost"`
	Margin    float64 `json:"margin"`
}

type RiderStats struct {
	RiderID    uint    `json:"rider_id"`
	Name       string  `json:"name"`
	AvgTime    float64 `json:"avg_time"`
	Deliveries int     `json:"deliveries"`
}

// ProductCosts maps a product id to its unrounded food cost.
type ProductCosts map[uint]decimal.Decimal

// UnitCosts indexes ingredient unit costs by ingredient id.
func UnitCosts(ingredients []models.Ingredient) map[uint]float64 {
	costs := make(map[uint]float64, len(ingredients))
	for _, ing := range ingredients {
		costs[ing.ID] = ing.UnitCost
	}
	return costs
}

// SumProductCosts accumulates quantity * unit cost per product without any
// rounding. Products without recipe lines are absent.
func SumProductCosts(lines []models.Recipe, unitCosts map[uint]float64) ProductCosts {
	totals, _ := accumulate(lines, unitCosts)
	return totals
}

// FoodCosts returns the food cost of every product that has at least one
// recipe line, in order of first appearance in lines. Each total is rounded
// once, after the sum.
func FoodCosts(lines []models.Recipe, unitCosts map[uint]float64) []FoodCost {
	totals, order := accumulate(lines, unitCosts)

	res := make([]FoodCost, 0, len(order))
	for _, pid := range order {
		res = append(res, FoodCost{
			ProductID: pid,
			FoodCost:  round(totals[pid]),
		})
	}
	return res
}

func accumulate(lines []models.Recipe, unitCosts map[uint]float64) (ProductCosts, []uint) {
	totals := make(ProductCosts)
	order := make([]uint, 0)

	for _, line := range lines {
		lineCost := ingredientCost(unitCosts, line.IngredientID).Mul(decimal.NewFromFloat(line.Quantity))

		acc, seen := totals[line.ProductID]
		if !seen {
			order = append(order, line.ProductID)
		}
		totals[line.ProductID] = acc.Add(lineCost)
	}
	return totals, order
}

func ingredientCost(unitCosts map[uint]float64, ingredientID uint) decimal.Decimal {
	cost, ok := unitCosts[ingredientID]
	if !ok {
		// dangling ingredient reference
		return decimal.NewFromFloat(MissingIngredientCost)
	}
	return decimal.NewFromFloat(cost)
}

// Margins computes average unit price, food cost and margin for every
// product present in the order totals, in the order given. Products with a
// recipe but no orders do not appear.
func Margins(totals []models.ProductOrderTotals, foodCosts ProductCosts) []Margin {
	res := make([]Margin, 0, len(totals))

	for _, t := range totals {
		avgPrice := decimal.Zero
		if t.TotalQuantity != 0 {
			avgPrice = decimal.NewFromFloat(t.TotalPrice).Div(decimal.NewFromInt(t.TotalQuantity))
		}

		fc, ok := foodCosts[t.ProductID]
		if !ok {
			fc = decimal.NewFromFloat(MissingProductCost)
		}

		res = append(res, Margin{
			ProductID: t.ProductID,
			AvgPrice:  round(avgPrice),
			FoodCost:  round(fc),
			Margin:    round(avgPrice.Sub(fc)),
		})
	}
	return res
}

// RiderPerformance reports, per rider and in input order, how many orders
// reference the rider. AvgTime is the rider's recorded delivery time; it is
// not derived from the orders.
func RiderPerformance(riders []models.Rider, orders []models.Order) []RiderStats {
	deliveries := make(map[uint]int)
	for _, o := range orders {
		if o.RiderID != nil {
			deliveries[*o.RiderID]++
		}
	}

	res := make([]RiderStats, 0, len(riders))
	for _, r := range riders {
		avgTime := MissingDeliveryTime
		if r.DeliveryTime != nil {
			avgTime = *r.DeliveryTime
		}

		res = append(res, RiderStats{
			RiderID:    r.ID,
			Name:       r.Name,
			AvgTime:    round(decimal.NewFromFloat(avgTime)),
			Deliveries: deliveries[r.ID],
		})
	}
	return res
}

func round(d decimal.Decimal) float64 {
	return d.Round(places).InexactFloat64()
}
