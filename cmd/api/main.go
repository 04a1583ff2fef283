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
	"github.com/tu-usuario/pos-pro/internal/application/auth"
	"github.com/tu-usuario/pos-pro/internal/application/cashregister"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/application/purchasing"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/application/usecase"
	infrapdf "github.com/tu-usuario/pos-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-pro/internal/interfaces/http"
	"github.com/tu-usuario/pos-pro/pkg/config"
	"github.com/tu-usuario/pos-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	shiftRepo := postgres.NewShiftRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	paymentRepo := postgres.NewPaymentMethodRepository(pool)
	taxRepo := postgres.NewTaxRuleRepository(pool)
	seqRepo := postgres.NewSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	numbers := numbering.NewGenerator(seqRepo)
	stockUC := inventory.NewStockMovementUseCase(
		txRunner, productRepo, movementRepo, cfg.POS.AllowNegativeStock,
	)
	createSaleUC := sales.NewCreateSaleUseCase(
		txRunner, stockUC,
		productRepo, customerRepo, paymentRepo, taxRepo, shiftRepo, saleRepo,
		numbers,
	)
	cancelSaleUC := sales.NewCancelSaleUseCase(txRunner, stockUC, saleRepo)
	receiptUC := sales.NewReceiptUseCase(
		saleRepo, customerRepo, paymentRepo, userRepo,
		infrapdf.NewMarotoReceiptGenerator(), cfg.POS.StoreName,
	)
	purchaseUC := purchasing.NewPurchaseUseCase(
		txRunner, stockUC, purchaseRepo, productRepo, supplierRepo, numbers,
	)
	shiftUC := cashregister.NewShiftUseCase(
		txRunner, shiftRepo, numbers, cfg.POS.CashDifferenceTolerance,
	)

	productUC := usecase.NewProductUseCase(productRepo, stockUC)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	settingsUC := usecase.NewSettingsUseCase(taxRepo, paymentRepo)
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
		Title:    "POS Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		CustomerUC: customerUC,
		SupplierUC: supplierUC,
		SettingsUC: settingsUC,
		StockUC:    stockUC,
		CreateSale: createSaleUC,
		CancelSale: cancelSaleUC,
		Receipt:    receiptUC,
		PurchaseUC: purchaseUC,
		ShiftUC:    shiftUC,
		JWTSecret:  cfg.JWT.Secret,
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
