// Package importer loads products, recipes, orders, inventory movements,
// riders and ingredient costs in bulk from an uploaded .csv or .xlsx file.
// A file is imported whole or not at all.
package importer

import (
	"context"
	"errors"
	"fmt"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchHeader carries the id shared by every audit entry of one import.
const BatchHeader = "X-Import-Batch"

// Writer is the part of the store an import writes through.
type Writer interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateInventoryMovement(ctx context.Context, m *models.InventoryMovement) error
	CreateRider(ctx context.Context, r *models.Rider) error

	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uint, name string, unitCost float64) (*models.Ingredient, error)
}

type Transactor interface {
	Transaction(ctx context.Context, fn func(w Writer) error) error
}

// StoreTransactor runs imports inside a store transaction.
type StoreTransactor struct {
	Store *store.Store
}

func (s StoreTransactor) Transaction(ctx context.Context, fn func(w Writer) error) error {
	return s.Store.Transaction(ctx, func(tx *store.Store) error {
		return fn(tx)
	})
}

type Auditor interface {
	Record(c *fiber.Ctx, e audit.Entry)
}

type Handler struct {
	tx    Transactor
	audit Auditor
	log   *zap.Logger
}

func NewHandler(tx Transactor, a Auditor, log *zap.Logger) *Handler {
	return &Handler{tx: tx, audit: a, log: log.Named("importer")}
}

// POST /api/products/import
func (h *Handler) Products() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityProduct, parseProducts,
			func(ctx context.Context, w Writer, p models.Product) (models.Product, audit.Entry, error) {
				if err := w.CreateProduct(ctx, &p); err != nil {
					return p, audit.Entry{}, err
				}
				return p, created(audit.EntityProduct, p.ID, p, "Product created: %s", p.Name), nil
			})
	}
}

// POST /api/recipes/import
func (h *Handler) Recipes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityRecipe, parseRecipes,
			func(ctx context.Context, w Writer, r models.Recipe) (models.Recipe, audit.Entry, error) {
				if err := w.CreateRecipe(ctx, &r); err != nil {
					return r, audit.Entry{}, err
				}
				return r, created(audit.EntityRecipe, r.ID, r,
					"Recipe line: product %d uses %g of ingredient %d", r.ProductID, r.Quantity, r.IngredientID), nil
			})
	}
}

// POST /api/orders/import
func (h *Handler) Orders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityOrder, parseOrders,
			func(ctx context.Context, w Writer, o models.Order) (models.Order, audit.Entry, error) {
				if err := w.CreateOrder(ctx, &o); err != nil {
					return o, audit.Entry{}, err
				}
				return o, created(audit.EntityOrder, o.ID, o,
					"Order: %d x product %d for %.2f", o.Quantity, o.ProductID, o.Price), nil
			})
	}
}

// POST /api/inventory/import
func (h *Handler) Inventory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityInventoryMovement, parseMovements,
			func(ctx context.Context, w Writer, m models.InventoryMovement) (models.InventoryMovement, audit.Entry, error) {
				if err := w.CreateInventoryMovement(ctx, &m); err != nil {
					return m, audit.Entry{}, err
				}
				return m, created(audit.EntityInventoryMovement, m.ID, m,
					"Inventory %s: %g of ingredient %d", m.MovementType, m.Quantity, m.IngredientID), nil
			})
	}
}

// POST /api/riders/import
func (h *Handler) Riders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityRider, parseRiders,
			func(ctx context.Context, w Writer, r models.Rider) (models.Rider, audit.Entry, error) {
				if err := w.CreateRider(ctx, &r); err != nil {
					return r, audit.Entry{}, err
				}
				return r, created(audit.EntityRider, r.ID, r, "Rider created: %s", r.Name), nil
			})
	}
}

// POST /api/ingredients/import-costs
func (h *Handler) IngredientCosts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return run(h, c, audit.EntityIngredient, parseIngredientCosts, upsertCost)
	}
}

func upsertCost(ctx context.Context, w Writer, row costRow) (models.Ingredient, audit.Entry, error) {
	existing, err := matchIngredient(ctx, w, row)
	if err != nil {
		return models.Ingredient{}, audit.Entry{}, err
	}

	if existing == nil {
		ing := models.Ingredient{Name: row.Name, UnitCost: row.UnitCost}
		if err := ing.Validate(); err != nil {
			return ing, audit.Entry{}, err
		}
		if err := w.CreateIngredient(ctx, &ing); err != nil {
			return ing, audit.Entry{}, err
		}
		return ing, created(audit.EntityIngredient, ing.ID, ing,
			"Ingredient created: %s (%.2f)", ing.Name, ing.UnitCost), nil
	}

	before := *existing
	ing, err := w.UpdateIngredient(ctx, existing.ID, existing.Name, row.UnitCost)
	if err != nil {
		return models.Ingredient{}, audit.Entry{}, err
	}
	return *ing, audit.Entry{
		EntityType:  audit.EntityIngredient,
		EntityID:    ing.ID,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Ingredient cost: %s %.2f -> %.2f", ing.Name, before.UnitCost, ing.UnitCost),
		Before:      before,
		After:       *ing,
	}, nil
}

// matchIngredient looks the row up by id, then by name. A nil result with a
// nil error means nothing matched.
func matchIngredient(ctx context.Context, w Writer, row costRow) (*models.Ingredient, error) {
	if row.ID != nil {
		ing, err := w.GetIngredient(ctx, *row.ID)
		if err == nil {
			return ing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if row.Name == "" {
		return nil, fmt.Errorf("ingredient %d: %w", *row.ID, store.ErrMissingReference)
	}

	ing, err := w.FindIngredientByName(ctx, row.Name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return ing, err
}

func created(entity string, id uint, after any, format string, args ...any) audit.Entry {
	return audit.Entry{
		EntityType:  entity,
		EntityID:    id,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf(format, args...),
		After:       after,
	}
}

// run reads the uploaded file, parses every row, then writes all rows in
// one transaction. Audit entries are recorded only after the commit.
func run[T, R any](
	h *Handler,
	c *fiber.Ctx,
	entity string,
	parse func(*table) ([]T, error),
	write func(context.Context, Writer, T) (R, audit.Entry, error),
) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, `multipart field "file" is required`)
	}
	t, err := readUpload(fh)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	items, err := parse(t)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	out := make([]R, len(items))
	entries := make([]audit.Entry, len(items))
	err = h.tx.Transaction(ctx, func(w Writer) error {
		for i, item := range items {
			res, entry, err := write(ctx, w, item)
			if err != nil {
				return fmt.Errorf("line %d: %w", t.lines[i], err)
			}
			out[i], entries[i] = res, entry
		}
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return httpx.StoreError(h.log, err, "")
	}

	batch := uuid.NewString()
	for _, e := range entries {
		e.Description = fmt.Sprintf("[import %s] %s", batch, e.Description)
		h.audit.Record(c, e)
	}

	h.log.Info("import committed",
		zap.String("entity", entity),
		zap.String("batch", batch),
		zap.Int("rows", len(out)),
	)
	c.Set(BatchHeader, batch)
	return c.Status(fiber.StatusCreated).JSON(out)
}
