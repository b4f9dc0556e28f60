package store

import (
	"context"
	"time"

	"foodcost-backend/internal/models"
)

type OrderFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID *uint
	RiderID   *uint
	Page
}

// CreateOrder inserts the order, stamping it with the current UTC time when
// no timestamp was given. The product and rider must exist.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if err := s.requireExists(ctx, &models.Product{}, o.ProductID, "product"); err != nil {
		return err
	}
	if o.RiderID != nil {
		if err := s.requireExists(ctx, &models.Rider{}, *o.RiderID, "rider"); err != nil {
			return err
		}
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}
	return translate(s.conn(ctx).Create(o).Error, "create order")
}

func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.conn(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err, "get order")
	}
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.Order{}, id, "delete order")
}

// ListOrders returns one page of orders ordered by timestamp.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.conn(ctx).Model(&models.Order{})
	if f.From != nil {
		q = q.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("timestamp <= ?", *f.To)
	}
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.RiderID != nil {
		q = q.Where("rider_id = ?", *f.RiderID)
	}

	var out []models.Order
	if err := f.Page.apply(q).Order("timestamp asc, id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return out, nil
}

// AllOrders returns every order without paging.
func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := s.conn(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return out, nil
}

// OrderTotalsByProduct sums price and quantity of all orders per product.
func (s *Store) OrderTotalsByProduct(ctx context.Context) ([]models.ProductOrderTotals, error) {
	var out []models.ProductOrderTotals
	err := s.conn(ctx).Model(&models.Order{}).
		Select("product_id, SUM(price) AS total_price, SUM(quantity) AS total_quantity").
		Group("product_id").
		Order("product_id asc").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "group orders by product")
	}
	return out, nil
}
