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

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/layout"
	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/memory"
	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/wms-fulfillment/internal/interfaces/http"
	"github.com/jhoicas/wms-fulfillment/pkg/config"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner fulfillment.TxRunner
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.NewStore()
		if cfg.Store.LayoutFile != "" {
			if err := loadLayout(store, cfg.Store.LayoutFile, cfg.Store.LayoutEnc); err != nil {
				log.Fatal().Err(err).Str("file", cfg.Store.LayoutFile).Msg("cargar layout")
			}
		}
		txRunner = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Store.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	reservations := fulfillment.NewReservationManager(txRunner, log)
	allocation := fulfillment.NewAllocationEngine(txRunner, log)
	generator := fulfillment.NewPickListGenerator(txRunner, reservations, log)
	route := fulfillment.NewRouteOptimizer(txRunner, log)
	execution := fulfillment.NewPickExecution(txRunner, reservations, log)
	waves := fulfillment.NewWaveOrchestrator(txRunner, generator, execution, fulfillment.WaveSettings{
		Batches:            cfg.Fulfillment.DefaultBatches,
		MinutesPerItem:     cfg.Fulfillment.MinutesPerItem,
		MinutesPerLocation: cfg.Fulfillment.MinutesPerLocation,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "WMS Fulfillment API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reservations: reservations,
		Allocation:   allocation,
		Generator:    generator,
		Route:        route,
		Execution:    execution,
		Waves:        waves,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
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

func loadLayout(store *memory.Store, path, encoding string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	l, err := layout.Parse(f, encoding)
	if err != nil {
		return err
	}
	l.Apply(store, time.Now().UTC())
	return nil
}
