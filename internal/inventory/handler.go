// Package inventory records stock movements (carico / scarico) of
// ingredients. No running stock level is derived from them.
package inventory

import (
	"context"
	"fmt"
	"time"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const movementNotFound = "Inventory movement not found"

type Store interface {
	CreateInventoryMovement(ctx context.Context, m *models.InventoryMovement) error
	GetInventoryMovement(ctx context.Context, id uint) (*models.InventoryMovement, error)
	DeleteInventoryMovement(ctx context.Context, id uint) error
	ListInventoryMovements(ctx context.Context, page store.Page) ([]models.InventoryMovement, error)
}

type Auditor interface {
	Record(c *fiber.Ctx, e audit.Entry)
}

type Handler struct {
	store Store
	audit Auditor
	log   *zap.Logger
}

func NewHandler(s Store, a Auditor, log *zap.Logger) *Handler {
	return &Handler{store: s, audit: a, log: log.Named("inventory")}
}

type MovementRequest struct {
	IngredientID uint                `json:"ingredient_id"`
	Quantity     float64             `json:"quantity"`
	MovementType models.MovementType `json:"movement_type"`
	Timestamp    string              `json:"timestamp"`
}

// POST /api/inventory
func (h *Handler) CreateMovement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var ts time.Time
		if body.Timestamp != "" {
			t, err := httpx.ParseTime(body.Timestamp)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			ts = t
		}

		m := models.InventoryMovement{
			IngredientID: body.IngredientID,
			Quantity:     body.Quantity,
			MovementType: body.MovementType,
			Timestamp:    ts,
		}
		if err := m.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := h.store.CreateInventoryMovement(c.UserContext(), &m); err != nil {
			return httpx.StoreError(h.log, err, movementNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityInventoryMovement,
			EntityID:    m.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Inventory %s: %g of ingredient %d", m.MovementType, m.Quantity, m.IngredientID),
			After:       m,
		})
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// GET /api/inventory
func (h *Handler) ListMovements() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}

		list, err := h.store.ListInventoryMovements(c.UserContext(), page)
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		if list == nil {
			list = []models.InventoryMovement{}
		}
		return c.JSON(list)
	}
}

// DELETE /api/inventory/:id
func (h *Handler) DeleteMovement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		m, err := h.store.GetInventoryMovement(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, movementNotFound)
		}
		if err := h.store.DeleteInventoryMovement(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, movementNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityInventoryMovement,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Inventory movement deleted: %s %g of ingredient %d", m.MovementType, m.Quantity, m.IngredientID),
			Before:      m,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
