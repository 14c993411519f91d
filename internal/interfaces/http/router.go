package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/application/shopfloor"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ProductUC       *usecase.ProductUseCase
	WorkCenterUC    *usecase.WorkCenterUseCase
	ManufacturingUC *usecase.ManufacturingUseCase
	BOMUC           *usecase.BOMUseCase
	LedgerUC        *ledger.AppendEntryUseCase
	KardexPDFUC     *ledger.KardexPDFUseCase
	WorkOrderUC     *workorder.UseCase
	ShopFloorUC     *shopfloor.UseCase
	WSHandler       *ws.Handler
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), productHandler.Delete)

	// Ledger (protegido): libro de inventario append-only
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC, deps.KardexPDFUC)
	ledgerGroup.Post("/entries", ledgerHandler.Append)
	ledgerGroup.Get("/entries", ledgerHandler.List)
	ledgerGroup.Get("/stock", ledgerHandler.CurrentStock)
	ledgerGroup.Get("/products/:id/entries", ledgerHandler.ProductMovement)
	ledgerGroup.Get("/products/:id/kardex.pdf", ledgerHandler.KardexPDF)

	// Work centers + vista de taller (protegido)
	centers := protected.Group("/work-centers")
	workCenterHandler := NewWorkCenterHandler(deps.WorkCenterUC, deps.ShopFloorUC)
	centers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), workCenterHandler.Create)
	centers.Get("/", workCenterHandler.List)
	centers.Get("/:id", workCenterHandler.GetByID)
	centers.Patch("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), workCenterHandler.ToggleStatus)
	protected.Get("/shop-floor", workCenterHandler.ShopFloor)

	// Work orders (protegido): máquina de estados
	orders := protected.Group("/work-orders")
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	orders.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), workOrderHandler.Create)
	orders.Get("/", workOrderHandler.List)
	orders.Get("/qr/:code", workOrderHandler.GetByQR)
	orders.Get("/:id", workOrderHandler.GetByID)
	orders.Patch("/:id/status", workOrderHandler.Transition)
	orders.Patch("/:id/assign", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), workOrderHandler.Assign)
	orders.Post("/:id/issues", workOrderHandler.ReportIssue)

	// Manufacturing orders (protegido)
	manufacturing := protected.Group("/manufacturing-orders")
	manufacturingHandler := NewManufacturingHandler(deps.ManufacturingUC)
	manufacturing.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), manufacturingHandler.Create)
	manufacturing.Get("/", manufacturingHandler.List)
	manufacturing.Get("/:id", manufacturingHandler.GetByID)
	manufacturing.Patch("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), manufacturingHandler.UpdateStatus)

	// BOMs (protegido)
	boms := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), bomHandler.Create)
	boms.Get("/", bomHandler.List)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), bomHandler.Update)
	boms.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), bomHandler.Delete)

	// Canal de eventos en tiempo real (websocket, best-effort)
	if deps.WSHandler != nil {
		app.Use("/ws", deps.WSHandler.Upgrade)
		app.Get("/ws", deps.WSHandler.Stream())
	}
}
