package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taller-api/internal/application/auth"
	appledger "github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/application/shopfloor"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	appworkorder "github.com/jhoicas/taller-api/internal/application/workorder"
	infrapdf "github.com/jhoicas/taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	entryRepo := postgres.NewLedgerEntryRepository(pool)
	orderRepo := postgres.NewWorkOrderRepository(pool)
	centerRepo := postgres.NewWorkCenterRepository(pool)
	moRepo := postgres.NewManufacturingOrderRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)

	ledgerTxRunner := postgres.NewTxRunner(pool)
	workOrderTxRunner := postgres.NewWorkOrderTxRunner(pool)

	// Canal de eventos en tiempo real (best-effort, at-most-once)
	hub := ws.NewHub(cfg.ShopFloor.SubscriberBuffer)
	wsHandler := ws.NewHandler(hub, cfg.ShopFloor.PollIntervalSeconds)

	ledgerUC := appledger.NewAppendEntryUseCase(ledgerTxRunner, productRepo, entryRepo, hub)
	kardexGenerator := infrapdf.NewMarotoKardexGenerator()
	kardexPDFUC := appledger.NewKardexPDFUseCase(productRepo, entryRepo, kardexGenerator)

	manufacturingUC := usecase.NewManufacturingUseCase(moRepo, orderRepo, productRepo, centerRepo, hub)
	workOrderUC := appworkorder.NewUseCase(workOrderTxRunner, orderRepo, centerRepo, hub, manufacturingUC)
	shopFloorUC := shopfloor.NewUseCase(centerRepo, orderRepo, hub)

	productUC := usecase.NewProductUseCase(productRepo, hub)
	workCenterUC := usecase.NewWorkCenterUseCase(centerRepo, hub)
	bomUC := usecase.NewBOMUseCase(bomRepo, productRepo, hub)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller MES API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductUC:       productUC,
		WorkCenterUC:    workCenterUC,
		ManufacturingUC: manufacturingUC,
		BOMUC:           bomUC,
		LedgerUC:        ledgerUC,
		KardexPDFUC:     kardexPDFUC,
		WorkOrderUC:     workOrderUC,
		ShopFloorUC:     shopFloorUC,
		WSHandler:       wsHandler,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
