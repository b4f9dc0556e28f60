package store

import (
	"context"
	"time"

	"foodcost-backend/internal/models"
)

func (s *Store) CreateInventoryMovement(ctx context.Context, m *models.InventoryMovement) error {
	if err := s.requireExists(ctx, &models.Ingredient{}, m.IngredientID, "ingredient"); err != nil {
		return err
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return translate(s.conn(ctx).Create(m).Error, "create inventory movement")
}

func (s *Store) GetInventoryMovement(ctx context.Context, id uint) (*models.InventoryMovement, error) {
	var m models.InventoryMovement
	if err := s.conn(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "get inventory movement")
	}
	return &m, nil
}

func (s *Store) DeleteInventoryMovement(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.InventoryMovement{}, id, "delete inventory movement")
}

func (s *Store) ListInventoryMovements(ctx context.Context, page Page) ([]models.InventoryMovement, error) {
	var out []models.InventoryMovement
	if err := page.apply(s.conn(ctx)).Order("timestamp desc, id desc").Find(&out).Error; err != nil {
		return nil, translate(err, "list inventory movements")
	}
	return out, nil
}
