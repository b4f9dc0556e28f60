// Package server assembles the fiber application: middleware, error
// rendering and the /api route table.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/auth"
	"foodcost-backend/internal/config"
	"foodcost-backend/internal/importer"
	"foodcost-backend/internal/inventory"
	"foodcost-backend/internal/logger"
	"foodcost-backend/internal/menu"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/report"
	"foodcost-backend/internal/sales"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Uploads for the import endpoints are the largest bodies.
const bodyLimit = 10 * 1024 * 1024

type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    *store.Store
	Recorder *audit.Recorder
}

func New(d Deps) *fiber.App {
	log := d.Log.Named("http")

	app := fiber.New(fiber.Config{
		AppName:      "foodcost-backend",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(d.Config.CORSOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: importer.BatchHeader + ", X-Request-ID",
	}))

	api := app.Group("/api")
	api.Get("/health", healthHandler(d.Store))

	// Public auth
	jwtCfg := d.Config.JWT
	api.Post("/auth/register", auth.RegisterHandler(d.Store, jwtCfg, d.Log))
	api.Post("/auth/login", auth.LoginHandler(d.Store, jwtCfg, d.Log))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(jwtCfg.Secret))
	protected.Get("/auth/me", auth.MeHandler(d.Store, d.Log))

	// Writes are admin only; viewers read.
	admin := auth.RequireRole(models.RoleAdmin)

	m := menu.NewHandler(d.Store, d.Recorder, d.Log)
	protected.Get("/ingredients", m.ListIngredients())
	protected.Get("/ingredients/:id", m.GetIngredient())
	protected.Post("/ingredients", admin, m.CreateIngredient())
	protected.Put("/ingredients/:id", admin, m.UpdateIngredient())
	protected.Delete("/ingredients/:id", admin, m.DeleteIngredient())

	protected.Get("/products", m.ListProducts())
	protected.Get("/products/:id", m.GetProduct())
	protected.Get("/products/:id/recipes", m.ProductRecipes())
	protected.Post("/products", admin, m.CreateProduct())
	protected.Put("/products/:id", admin, m.UpdateProduct())
	protected.Delete("/products/:id", admin, m.DeleteProduct())

	protected.Get("/recipes", m.ListRecipes())
	protected.Post("/recipes", admin, m.CreateRecipe())
	protected.Delete("/recipes/:id", admin, m.DeleteRecipe())

	s := sales.NewHandler(d.Store, d.Recorder, d.Log)
	protected.Get("/orders", s.ListOrders())
	protected.Get("/orders/:id", s.GetOrder())
	protected.Post("/orders", admin, s.CreateOrder())
	protected.Delete("/orders/:id", admin, s.DeleteOrder())

	protected.Get("/riders", s.ListRiders())
	protected.Get("/riders/:id", s.GetRider())
	protected.Post("/riders", admin, s.CreateRider())
	protected.Put("/riders/:id", admin, s.UpdateRider())
	protected.Delete("/riders/:id", admin, s.DeleteRider())

	inv := inventory.NewHandler(d.Store, d.Recorder, d.Log)
	protected.Get("/inventory", inv.ListMovements())
	protected.Post("/inventory", admin, inv.CreateMovement())
	protected.Delete("/inventory/:id", admin, inv.DeleteMovement())

	rep := report.NewHandler(report.StoreSource{Store: d.Store}, d.Log)
	protected.Get("/reports/food-cost", rep.FoodCost())
	protected.Get("/reports/margin", rep.Margin())
	protected.Get("/reports/rider-performance", rep.RiderPerformance())

	imp := importer.NewHandler(importer.StoreTransactor{Store: d.Store}, d.Recorder, d.Log)
	protected.Post("/orders/import", admin, imp.Orders())
	protected.Post("/products/import", admin, imp.Products())
	protected.Post("/recipes/import", admin, imp.Recipes())
	protected.Post("/inventory/import", admin, imp.Inventory())
	protected.Post("/riders/import", admin, imp.Riders())
	protected.Post("/ingredients/import-costs", admin, imp.IngredientCosts())

	protected.Get("/audit-logs", admin, d.Recorder.ListHandler())
	protected.Post("/audit-logs/:id/undo", admin, d.Recorder.UndoHandler())

	return app
}

// errorHandler renders every error as {"error": msg}. Anything that is not
// a *fiber.Error is logged and reported as a 500.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// GET /api/health
func healthHandler(db pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
