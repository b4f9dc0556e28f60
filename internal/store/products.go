package store

import (
	"context"

	"foodcost-backend/internal/models"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.conn(ctx).Create(p).Error, "create product")
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, name string) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	if err := s.conn(ctx).Save(p).Error; err != nil {
		return nil, translate(err, "update product")
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.Product{}, id, "delete product")
}

func (s *Store) ListProducts(ctx context.Context, page Page) ([]models.Product, error) {
	var out []models.Product
	if err := page.apply(s.conn(ctx)).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return out, nil
}
