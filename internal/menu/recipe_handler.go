package menu

import (
	"fmt"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const recipeNotFound = "Recipe not found"

type RecipeRequest struct {
	ProductID    uint     `json:"product_id"`
	IngredientID uint     `json:"ingredient_id"`
	Quantity     *float64 `json:"quantity"`
}

// POST /api/recipes
func (h *Handler) CreateRecipe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Quantity == nil {
			return fiber.NewError(fiber.StatusBadRequest, "quantity is required")
		}

		r := models.Recipe{ProductID: body.ProductID, IngredientID: body.IngredientID, Quantity: *body.Quantity}
		if err := r.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := h.store.CreateRecipe(c.UserContext(), &r); err != nil {
			return httpx.StoreError(h.log, err, recipeNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityRecipe,
			EntityID:    r.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Recipe line: product %d uses %g of ingredient %d", r.ProductID, r.Quantity, r.IngredientID),
			After:       r,
		})
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// GET /api/recipes
func (h *Handler) ListRecipes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}

		list, err := h.store.ListRecipes(c.UserContext(), page)
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(list))
	}
}

// DELETE /api/recipes/:id
func (h *Handler) DeleteRecipe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		r, err := h.store.GetRecipe(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, recipeNotFound)
		}
		if err := h.store.DeleteRecipe(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, recipeNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityRecipe,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Recipe line deleted: product %d, ingredient %d", r.ProductID, r.IngredientID),
			Before:      r,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
