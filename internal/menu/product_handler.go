package menu

import (
	"fmt"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const productNotFound = "Product not found"

type ProductRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		p := models.Product{Name: body.Name}
		if err := p.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := h.store.CreateProduct(c.UserContext(), &p); err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Product created: %s", p.Name),
			After:       p,
		})
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func (h *Handler) ListProducts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}

		list, err := h.store.ListProducts(c.UserContext(), page)
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(list))
	}
}

func (h *Handler) GetProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		p, err := h.store.GetProduct(c.UserContext(), id)
		if err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}
		return c.JSON(p)
	}
}

func (h *Handler) UpdateProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		next := models.Product{Name: body.Name}
		if err := next.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()
		before, err := h.store.GetProduct(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}
		p, err := h.store.UpdateProduct(ctx, id, next.Name)
		if err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Product renamed: %s -> %s", before.Name, p.Name),
			Before:      before,
			After:       p,
		})
		return c.JSON(p)
	}
}

func (h *Handler) DeleteProduct() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		p, err := h.store.GetProduct(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}
		if err := h.store.DeleteProduct(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityProduct,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Product deleted: %s", p.Name),
			Before:      p,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/products/:id/recipes
func (h *Handler) ProductRecipes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		if _, err := h.store.GetProduct(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, productNotFound)
		}
		lines, err := h.store.RecipesByProduct(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(lines))
	}
}
