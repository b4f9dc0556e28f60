package store

import (
	"context"

	"foodcost-backend/internal/models"
)

func (s *Store) CreateRider(ctx context.Context, r *models.Rider) error {
	return translate(s.conn(ctx).Create(r).Error, "create rider")
}

func (s *Store) GetRider(ctx context.Context, id uint) (*models.Rider, error) {
	var r models.Rider
	if err := s.conn(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err, "get rider")
	}
	return &r, nil
}

func (s *Store) UpdateRider(ctx context.Context, id uint, name string, deliveryTime *float64) (*models.Rider, error) {
	r, err := s.GetRider(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Name = name
	r.DeliveryTime = deliveryTime
	if err := s.conn(ctx).Save(r).Error; err != nil {
		return nil, translate(err, "update rider")
	}
	return r, nil
}

func (s *Store) DeleteRider(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.Rider{}, id, "delete rider")
}

func (s *Store) ListRiders(ctx context.Context, page Page) ([]models.Rider, error) {
	var out []models.Rider
	if err := page.apply(s.conn(ctx)).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list riders")
	}
	return out, nil
}

// AllRiders returns every rider ordered by id.
func (s *Store) AllRiders(ctx context.Context) ([]models.Rider, error) {
	var out []models.Rider
	if err := s.conn(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list riders")
	}
	return out, nil
}
