package menu

import (
	"fmt"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const ingredientNotFound = "Ingredient not found"

type IngredientRequest struct {
	Name     string   `json:"name"`
	UnitCost *float64 `json:"unit_cost"`
}

func (r IngredientRequest) model() (models.Ingredient, error) {
	if r.UnitCost == nil {
		return models.Ingredient{}, fiber.NewError(fiber.StatusBadRequest, "unit_cost is required")
	}
	ing := models.Ingredient{Name: r.Name, UnitCost: *r.UnitCost}
	if err := ing.Validate(); err != nil {
		return models.Ingredient{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ing, nil
}

// POST /api/ingredients
func (h *Handler) CreateIngredient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		ing, err := body.model()
		if err != nil {
			return err
		}

		if err := h.store.CreateIngredient(c.UserContext(), &ing); err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityIngredient,
			EntityID:    ing.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ingredient created: %s (%.2f)", ing.Name, ing.UnitCost),
			After:       ing,
		})
		return c.Status(fiber.StatusCreated).JSON(ing)
	}
}

// GET /api/ingredients?skip=0&limit=100&name_contains=mozz&cost_min=1&cost_max=10
func (h *Handler) ListIngredients() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}
		costMin, err := httpx.QueryFloat(c, "cost_min")
		if err != nil {
			return err
		}
		costMax, err := httpx.QueryFloat(c, "cost_max")
		if err != nil {
			return err
		}

		list, err := h.store.ListIngredients(c.UserContext(), store.IngredientFilter{
			NameContains: c.Query("name_contains"),
			CostMin:      costMin,
			CostMax:      costMax,
			Page:         page,
		})
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(list))
	}
}

// GET /api/ingredients/:id
func (h *Handler) GetIngredient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ing, err := h.store.GetIngredient(c.UserContext(), id)
		if err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}
		return c.JSON(ing)
	}
}

// PUT /api/ingredients/:id
func (h *Handler) UpdateIngredient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		next, err := body.model()
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		before, err := h.store.GetIngredient(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}

		ing, err := h.store.UpdateIngredient(ctx, id, next.Name, next.UnitCost)
		if err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityIngredient,
			EntityID:    ing.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ingredient updated: %s (%.2f -> %.2f)", ing.Name, before.UnitCost, ing.UnitCost),
			Before:      before,
			After:       ing,
		})
		return c.JSON(ing)
	}
}

// DELETE /api/ingredients/:id
func (h *Handler) DeleteIngredient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		ing, err := h.store.GetIngredient(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}
		if err := h.store.DeleteIngredient(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, ingredientNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityIngredient,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ingredient deleted: %s", ing.Name),
			Before:      ing,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
