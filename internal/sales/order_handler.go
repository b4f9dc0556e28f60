package sales

import (
	"fmt"
	"time"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const orderNotFound = "Order not found"

type OrderRequest struct {
	Timestamp string  `json:"timestamp"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	RiderID   *uint   `json:"rider_id"`
	Price     float64 `json:"price"`
}

// POST /api/orders
func (h *Handler) CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OrderRequest
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

		o := models.Order{
			Timestamp: ts,
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			RiderID:   body.RiderID,
			Price:     body.Price,
		}
		if err := o.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := h.store.CreateOrder(c.UserContext(), &o); err != nil {
			return httpx.StoreError(h.log, err, orderNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityOrder,
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Order: %d x product %d for %.2f", o.Quantity, o.ProductID, o.Price),
			After:       o,
		})
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// GET /api/orders?date_from=2024-01-01&date_to=2024-01-31&product_id=1&rider_id=2
func (h *Handler) ListOrders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}
		from, err := httpx.QueryTime(c, "date_from")
		if err != nil {
			return err
		}
		to, err := httpx.QueryTime(c, "date_to")
		if err != nil {
			return err
		}
		if from != nil && to != nil && to.Before(*from) {
			return fiber.NewError(fiber.StatusBadRequest, "date_to must not be before date_from")
		}
		productID, err := httpx.QueryUint(c, "product_id")
		if err != nil {
			return err
		}
		riderID, err := httpx.QueryUint(c, "rider_id")
		if err != nil {
			return err
		}

		list, err := h.store.ListOrders(c.UserContext(), store.OrderFilter{
			From:      from,
			To:        to,
			ProductID: productID,
			RiderID:   riderID,
			Page:      page,
		})
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(list))
	}
}

func (h *Handler) GetOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		o, err := h.store.GetOrder(c.UserContext(), id)
		if err != nil {
			return httpx.StoreError(h.log, err, orderNotFound)
		}
		return c.JSON(o)
	}
}

func (h *Handler) DeleteOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		o, err := h.store.GetOrder(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, orderNotFound)
		}
		if err := h.store.DeleteOrder(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, orderNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityOrder,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Order deleted: %d x product %d", o.Quantity, o.ProductID),
			Before:      o,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
