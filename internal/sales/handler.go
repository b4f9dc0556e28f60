// Package sales serves orders and the riders who deliver them.
package sales

import (
	"context"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Store interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error)

	CreateRider(ctx context.Context, r *models.Rider) error
	GetRider(ctx context.Context, id uint) (*models.Rider, error)
	UpdateRider(ctx context.Context, id uint, name string, deliveryTime *float64) (*models.Rider, error)
	DeleteRider(ctx context.Context, id uint) error
	ListRiders(ctx context.Context, page store.Page) ([]models.Rider, error)
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
	return &Handler{store: s, audit: a, log: log.Named("sales")}
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
