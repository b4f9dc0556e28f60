// Package menu serves ingredients, products and the recipe lines that link
// them.
package menu

import (
	"context"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Store interface {
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uint, name string, unitCost float64) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uint) error
	ListIngredients(ctx context.Context, f store.IngredientFilter) ([]models.Ingredient, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, name string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context, page store.Page) ([]models.Product, error)

	CreateRecipe(ctx context.Context, r *models.Recipe) error
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint) error
	ListRecipes(ctx context.Context, page store.Page) ([]models.Recipe, error)
	RecipesByProduct(ctx context.Context, productID uint) ([]models.Recipe, error)
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
	return &Handler{store: s, audit: a, log: log.Named("menu")}
}
