package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid marks a record that fails field validation.
var ErrInvalid = errors.New("validation failed")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (i *Ingredient) Validate() error {
	i.Name = strings.TrimSpace(i.Name)
	if i.Name == "" {
		return invalid("name is required")
	}
	if !finite(i.UnitCost) || i.UnitCost < 0 {
		return invalid("unit_cost must be a non-negative number")
	}
	return nil
}

func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name is required")
	}
	return nil
}

func (r *Recipe) Validate() error {
	if r.ProductID == 0 {
		return invalid("product_id is required")
	}
	if r.IngredientID == 0 {
		return invalid("ingredient_id is required")
	}
	if !finite(r.Quantity) || r.Quantity < 0 {
		return invalid("quantity must be a non-negative number")
	}
	return nil
}

func (o *Order) Validate() error {
	if o.ProductID == 0 {
		return invalid("product_id is required")
	}
	if o.Quantity <= 0 {
		return invalid("quantity must be greater than zero")
	}
	if !finite(o.Price) || o.Price < 0 {
		return invalid("price must be a non-negative number")
	}
	if o.RiderID != nil && *o.RiderID == 0 {
		return invalid("rider_id must be a valid id")
	}
	return nil
}

func (m *InventoryMovement) Validate() error {
	if m.IngredientID == 0 {
		return invalid("ingredient_id is required")
	}
	if !finite(m.Quantity) || m.Quantity <= 0 {
		return invalid("quantity must be greater than zero")
	}
	m.MovementType = MovementType(strings.ToLower(strings.TrimSpace(string(m.MovementType))))
	if !m.MovementType.Valid() {
		return invalid("movement_type must be %q or %q", MovementCarico, MovementScarico)
	}
	return nil
}

func (r *Rider) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalid("name is required")
	}
	if r.DeliveryTime != nil && (!finite(*r.DeliveryTime) || *r.DeliveryTime < 0) {
		return invalid("delivery_time must be a non-negative number")
	}
	return nil
}
