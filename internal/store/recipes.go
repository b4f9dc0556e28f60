package store

import (
	"context"

	"foodcost-backend/internal/models"
)

// CreateRecipe inserts a recipe line after checking that its product and
// ingredient exist.
func (s *Store) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	if err := s.requireExists(ctx, &models.Product{}, r.ProductID, "product"); err != nil {
		return err
	}
	if err := s.requireExists(ctx, &models.Ingredient{}, r.IngredientID, "ingredient"); err != nil {
		return err
	}
	return translate(s.conn(ctx).Create(r).Error, "create recipe")
}

func (s *Store) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.conn(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err, "get recipe")
	}
	return &r, nil
}

func (s *Store) DeleteRecipe(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.Recipe{}, id, "delete recipe")
}

func (s *Store) ListRecipes(ctx context.Context, page Page) ([]models.Recipe, error) {
	var out []models.Recipe
	if err := page.apply(s.conn(ctx)).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list recipes")
	}
	return out, nil
}

func (s *Store) RecipesByProduct(ctx context.Context, productID uint) ([]models.Recipe, error) {
	var out []models.Recipe
	if err := s.conn(ctx).Where("product_id = ?", productID).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list product recipes")
	}
	return out, nil
}

// AllRecipes returns every recipe line ordered by id.
func (s *Store) AllRecipes(ctx context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	if err := s.conn(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err, "list recipes")
	}
	return out, nil
}
