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

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
	"github.com/jhoicas/obras-backoffice/internal/domain/tax"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/cache"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/obras-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/obras-backoffice/internal/interfaces/http"
	"github.com/jhoicas/obras-backoffice/pkg/config"
	"github.com/jhoicas/obras-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	healthChecks := map[string]httpRouter.HealthCheck{
		"database": pool.Ping,
	}

	// Caché del snapshot de documentos: opcional.
	var snapshots billing.SnapshotCache
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		snapshots = cache.NewRedisSnapshotCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Msg("caché Redis de documentos activa")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invoiceUC := billing.NewInvoiceUseCase(
		invoiceRepo, clientRepo, projectRepo, txRunner, snapshots,
		tax.ParseRate(cfg.Tax.IVARate), log.WithComponent("billing"),
	)
	chainReportUC := billing.NewChainReportUseCase(
		invoiceUC, companyRepo, infrapdf.NewChainReportRenderer(), export.NewChainXMLEncoder(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerFile,
		Path:     "docs",
		Title:    "Obras Backoffice API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:    usecase.NewCompanyUseCase(companyRepo),
		ModuleSvc:    usecase.NewModuleService(companyRepo),
		ClientUC:     usecase.NewClientUseCase(clientRepo),
		ProjectUC:    usecase.NewProjectUseCase(projectRepo, clientRepo),
		InvoiceUC:    invoiceUC,
		ChainReport:  chainReportUC,
		HealthChecks: healthChecks,
		JWTSecret:    cfg.JWT.Secret,
		Logger:       log.WithComponent("http"),
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
