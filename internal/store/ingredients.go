package store

import (
	"context"

	"foodcost-backend/internal/models"
)

type IngredientFilter struct {
	NameContains string
	CostMin      *float64
	CostMax      *float64
	Page
}

func (s *Store) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return translate(s.conn(ctx).Create(ing).Error, "create ingredient")
}

func (s *Store) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.conn(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err, "get ingredient")
	}
	return &ing, nil
}

func (s *Store) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.conn(ctx).Where("name = ?", name).First(&ing).Error; err != nil {
		return nil, translate(err, "find ingredient")
	}
	return &ing, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, id uint, name string, unitCost float64) (*models.Ingredient, error) {
	ing, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	ing.Name = name
	ing.UnitCost = unitCost
	if err := s.conn(ctx).Save(ing).Error; err != nil {
		return nil, translate(err, "update ingredient")
	}
	return ing, nil
}

func (s *Store) DeleteIngredient(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.Ingredient{}, id, "delete ingredient")
}

// ListIngredients returns one page of ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context, f IngredientFilter) ([]models.Ingredient, error) {
	q := s.conn(ctx).Model(&models.Ingredient{})
	if f.NameContains != "" {
		q = q.Where("name ILIKE ?", "%"+f.NameContains+"%")
	}
	if f.CostMin != nil {
		q = q.Where("unit_cost >= ?", *f.CostMin)
	}
	if f.CostMax != nil {
		q = q.Where("unit_cost <= ?", *f.CostMax)
	}

	var out []models.Ingredient
	if err := f.Page.apply(q).Order("name asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list ingredients")
	}
	return out, nil
}

// AllIngredients returns every ingredient without paging.
func (s *Store) AllIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var out []models.Ingredient
	if err := s.conn(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list ingredients")
	}
	return out, nil
}
