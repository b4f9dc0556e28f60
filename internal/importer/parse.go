package importer

import (
	"math"

	"foodcost-backend/internal/models"
)

// Each parser turns every row of the table into a validated model, or
// stops at the first bad row. Result i comes from t.lines[i].

func parseProducts(t *table) ([]models.Product, error) {
	if err := t.require("name"); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		name, err := r.text("name")
		if err != nil {
			return nil, err
		}
		p := models.Product{Name: name}
		if err := p.Validate(); err != nil {
			return nil, r.invalid(err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRecipes(t *table) ([]models.Recipe, error) {
	if err := t.require("product_id", "ingredient_id", "quantity"); err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		productID, err := r.id("product_id")
		if err != nil {
			return nil, err
		}
		ingredientID, err := r.id("ingredient_id")
		if err != nil {
			return nil, err
		}
		qty, err := r.number("quantity")
		if err != nil {
			return nil, err
		}
		rec := models.Recipe{ProductID: productID, IngredientID: ingredientID, Quantity: qty}
		if err := rec.Validate(); err != nil {
			return nil, r.invalid(err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseOrders(t *table) ([]models.Order, error) {
	if err := t.require("product_id", "quantity", "price"); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		productID, err := r.id("product_id")
		if err != nil {
			return nil, err
		}
		qty, err := r.integer("quantity")
		if err != nil {
			return nil, err
		}
		price, err := r.number("price")
		if err != nil {
			return nil, err
		}
		riderID, err := r.optID("rider_id")
		if err != nil {
			return nil, err
		}
		ts, err := r.optTime("timestamp")
		if err != nil {
			return nil, err
		}
		o := models.Order{Timestamp: ts, ProductID: productID, Quantity: qty, RiderID: riderID, Price: price}
		if err := o.Validate(); err != nil {
			return nil, r.invalid(err)
		}
		out = append(out, o)
	}
	return out, nil
}

func parseMovements(t *table) ([]models.InventoryMovement, error) {
	if err := t.require("ingredient_id", "quantity", "movement_type"); err != nil {
		return nil, err
	}
	out := make([]models.InventoryMovement, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		ingredientID, err := r.id("ingredient_id")
		if err != nil {
			return nil, err
		}
		qty, err := r.number("quantity")
		if err != nil {
			return nil, err
		}
		kind, err := r.text("movement_type")
		if err != nil {
			return nil, err
		}
		ts, err := r.optTime("timestamp")
		if err != nil {
			return nil, err
		}
		m := models.InventoryMovement{
			IngredientID: ingredientID,
			Quantity:     qty,
			MovementType: models.MovementType(kind),
			Timestamp:    ts,
		}
		if err := m.Validate(); err != nil {
			return nil, r.invalid(err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseRiders(t *table) ([]models.Rider, error) {
	if err := t.require("name"); err != nil {
		return nil, err
	}
	out := make([]models.Rider, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		name, err := r.text("name")
		if err != nil {
			return nil, err
		}
		dt, err := r.optNumber("delivery_time")
		if err != nil {
			return nil, err
		}
		rider := models.Rider{Name: name, DeliveryTime: dt}
		if err := rider.Validate(); err != nil {
			return nil, r.invalid(err)
		}
		out = append(out, rider)
	}
	return out, nil
}

// costRow updates the ingredient with ID when given, otherwise the one
// named Name, creating it when neither matches.
type costRow struct {
	ID       *uint
	Name     string
	UnitCost float64
}

func parseIngredientCosts(t *table) ([]costRow, error) {
	if err := t.require("unit_cost"); err != nil {
		return nil, err
	}
	if _, hasID := t.columns["id"]; !hasID {
		if err := t.require("name"); err != nil {
			return nil, err
		}
	}

	out := make([]costRow, 0, len(t.rows))
	for i := range t.rows {
		r := t.row(i)
		id, err := r.optID("id")
		if err != nil {
			return nil, err
		}
		name := r.str("name")
		if id == nil && name == "" {
			return nil, r.fail("name", "value is required when id is empty")
		}
		cost, err := r.number("unit_cost")
		if err != nil {
			return nil, err
		}
		if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
			return nil, r.fail("unit_cost", "must be a non-negative number")
		}
		out = append(out, costRow{ID: id, Name: name, UnitCost: cost})
	}
	return out, nil
}
