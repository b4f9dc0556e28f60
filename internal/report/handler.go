// Package report serves the aggregate views computed by package costing.
// Each report reads all of its inputs from one database snapshot.
package report

import (
	"context"

	"foodcost-backend/internal/costing"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Reader is the read side of the store used by the reports.
type Reader interface {
	AllRecipes(ctx context.Context) ([]models.Recipe, error)
	AllIngredients(ctx context.Context) ([]models.Ingredient, error)
	OrderTotalsByProduct(ctx context.Context) ([]models.ProductOrderTotals, error)
	AllRiders(ctx context.Context) ([]models.Rider, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
}

// Source hands fn a Reader whose reads all see the same database state.
type Source interface {
	Read(ctx context.Context, fn func(r Reader) error) error
}

// StoreSource reads through a store snapshot transaction.
type StoreSource struct {
	Store *store.Store
}

func (s StoreSource) Read(ctx context.Context, fn func(r Reader) error) error {
	return s.Store.Snapshot(ctx, func(tx *store.Store) error {
		return fn(tx)
	})
}

type Handler struct {
	source Source
	log    *zap.Logger
}

func NewHandler(src Source, log *zap.Logger) *Handler {
	return &Handler{source: src, log: log.Named("report")}
}

// GET /api/reports/food-cost
func (h *Handler) FoodCost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var out []costing.FoodCost
		err := h.source.Read(ctx, func(r Reader) error {
			lines, ingredients, err := recipeInputs(ctx, r)
			if err != nil {
				return err
			}
			out = costing.FoodCosts(lines, costing.UnitCosts(ingredients))
			return nil
		})
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		if out == nil {
			out = []costing.FoodCost{}
		}
		return c.JSON(out)
	}
}

// GET /api/reports/margin
func (h *Handler) Margin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var out []costing.Margin
		err := h.source.Read(ctx, func(r Reader) error {
			lines, ingredients, err := recipeInputs(ctx, r)
			if err != nil {
				return err
			}
			totals, err := r.OrderTotalsByProduct(ctx)
			if err != nil {
				return err
			}
			costs := costing.SumProductCosts(lines, costing.UnitCosts(ingredients))
			out = costing.Margins(totals, costs)
			return nil
		})
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		if out == nil {
			out = []costing.Margin{}
		}
		return c.JSON(out)
	}
}

// GET /api/reports/rider-performance
func (h *Handler) RiderPerformance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var out []costing.RiderStats
		err := h.source.Read(ctx, func(r Reader) error {
			riders, err := r.AllRiders(ctx)
			if err != nil {
				return err
			}
			orders, err := r.AllOrders(ctx)
			if err != nil {
				return err
			}
			out = costing.RiderPerformance(riders, orders)
			return nil
		})
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		if out == nil {
			out = []costing.RiderStats{}
		}
		return c.JSON(out)
	}
}

func recipeInputs(ctx context.Context, r Reader) ([]models.Recipe, []models.Ingredient, error) {
	lines, err := r.AllRecipes(ctx)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := r.AllIngredients(ctx)
	if err != nil {
		return nil, nil, err
	}
	return lines, ingredients, nil
}
