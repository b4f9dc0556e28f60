package sales

import (
	"fmt"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const riderNotFound = "Rider not found"

type RiderRequest struct {
	Name         string   `json:"name"`
	DeliveryTime *float64 `json:"delivery_time"`
}

func (r RiderRequest) model() (models.Rider, error) {
	rider := models.Rider{Name: r.Name, DeliveryTime: r.DeliveryTime}
	if err := rider.Validate(); err != nil {
		return models.Rider{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return rider, nil
}

func (h *Handler) CreateRider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RiderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		r, err := body.model()
		if err != nil {
			return err
		}

		if err := h.store.CreateRider(c.UserContext(), &r); err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityRider,
			EntityID:    r.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Rider created: %s", r.Name),
			After:       r,
		})
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

func (h *Handler) ListRiders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := httpx.Page(c)
		if err != nil {
			return err
		}

		list, err := h.store.ListRiders(c.UserContext(), page)
		if err != nil {
			return httpx.StoreError(h.log, err, "")
		}
		return c.JSON(nonNil(list))
	}
}

func (h *Handler) GetRider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		r, err := h.store.GetRider(c.UserContext(), id)
		if err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}
		return c.JSON(r)
	}
}

func (h *Handler) UpdateRider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		var body RiderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		next, err := body.model()
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		before, err := h.store.GetRider(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}
		r, err := h.store.UpdateRider(ctx, id, next.Name, next.DeliveryTime)
		if err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityRider,
			EntityID:    r.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Rider updated: %s", r.Name),
			Before:      before,
			After:       r,
		})
		return c.JSON(r)
	}
}

func (h *Handler) DeleteRider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseID(c, "id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		r, err := h.store.GetRider(ctx, id)
		if err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}
		if err := h.store.DeleteRider(ctx, id); err != nil {
			return httpx.StoreError(h.log, err, riderNotFound)
		}

		h.audit.Record(c, audit.Entry{
			EntityType:  audit.EntityRider,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Rider deleted: %s", r.Name),
			Before:      r,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
