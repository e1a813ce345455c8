package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/Repuestos-api/docs"
	"github.com/jhoicas/Repuestos-api/internal/application/auth"
	"github.com/jhoicas/Repuestos-api/internal/application/documents"
	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
	"github.com/jhoicas/Repuestos-api/internal/application/reservation"
	"github.com/jhoicas/Repuestos-api/internal/infrastructure/events"
	infraexcel "github.com/jhoicas/Repuestos-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/Repuestos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Repuestos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Repuestos-api/internal/interfaces/http"
	"github.com/jhoicas/Repuestos-api/pkg/config"
	"github.com/jhoicas/Repuestos-api/pkg/logger"
)

// @title        Repuestos API
// @version      1.0
// @description  Cotizaciones y reserva de inventario serializado de repuestos para maquinaria pesada.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("tax_rate", cfg.Quotation.TaxRate.String()).
		Int("validity_days", cfg.Quotation.ValidityDays).
		Bool("allow_backorder", cfg.Quotation.AllowBackorder).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	quoteRepo := postgres.NewQuotationRepository(pool)
	unitRepo := postgres.NewPartItemRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Quotation.LockTimeout)

	quotationSvc := quotation.NewService(quotation.Deps{
		Tx:        txRunner,
		Quotes:    quoteRepo,
		Units:     unitRepo,
		Invoices:  invoiceRepo,
		Parts:     partRepo,
		Companies: companyRepo,
		Ledger:    reservation.NewLedger(log.Component("reservation")),
		Events:    events.NewLogPublisher(log.Zerolog()),
	}, quotation.Config{
		ValidityDays:   cfg.Quotation.ValidityDays,
		TaxRate:        cfg.Quotation.TaxRate,
		AllowBackorder: cfg.Quotation.AllowBackorder,
		MaxRetries:     cfg.Quotation.MaxRetries,
		RetryBackoff:   cfg.Quotation.RetryBackoff,
		NumberPrefix:   cfg.Quotation.NumberPrefix,
		InvoicePrefix:  cfg.Quotation.InvoicePrefix,
	}, log.Zerolog())

	// Documentos: PDF (maroto) y XLSX (excelize) de cotizaciones y facturas
	documentsUC := documents.NewUseCase(
		quotationSvc, partRepo, companyRepo, quoteRepo,
		infrapdf.NewMarotoPDFGenerator(), infraexcel.NewSheetGenerator(), cfg.App.Issuer,
	)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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
		Title:    "Repuestos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Quotations: quotationSvc,
		Documents:  documentsUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		Log:        log.Component("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		return quotation.NewSweeper(quotationSvc, cfg.Quotation.SweepInterval, log.Zerolog()).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("aplicación finalizada con error")
	}
	log.Info().Msg("aplicación detenida")
}
