package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC            *auth.AuthUseCase
	ItemUC            *usecase.ItemUseCase
	StockUC           *usecase.StockUseCase
	StorageLocationUC *usecase.StorageLocationUseCase
	UserUC            *usecase.UserUseCase
	ReportUC          *usecase.ReportUseCase
	Log               *logger.Logger
	StreamKeepAlive   time.Duration
}

// Router registra las rutas de la API. Todas requieren un token de usuario válido.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.AuthUC))

	authHandler := NewAuthHandler(deps.AuthUC)
	api.Get("/auth/me", authHandler.Me)

	// Items + ledger de stock
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	stockHandler := NewStockHandler(deps.StockUC)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Post("/stock", stockHandler.Batch)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Get("/:id/stock", stockHandler.Current)
	items.Get("/:id/history", stockHandler.History)
	items.Post("/:id/stock-changes", stockHandler.Record)

	// Storage locations (+ vista en tiempo real)
	locations := api.Group("/storage-locations")
	locationHandler := NewStorageLocationHandler(deps.StorageLocationUC, deps.Log, deps.StreamKeepAlive)
	locations.Get("/", locationHandler.List)
	locations.Post("/", locationHandler.Create)
	locations.Get("/stream", locationHandler.Stream)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/reports/stock.pdf", reportHandler.StockPDF)

	// Usuarios (solo admin)
	users := api.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)
}
