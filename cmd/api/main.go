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
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/jhoicas/stock-locations-api/docs" // registra la especificación OpenAPI en swag
	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/application/usecase"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-locations-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-locations-api/internal/interfaces/http"
	"github.com/jhoicas/stock-locations-api/pkg/config"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// storage agrupa los adaptadores de persistencia del driver elegido.
type storage struct {
	locations repository.LocationRepository
	products  repository.ProductRepository
	stock     repository.LocationStockRepository
	allocs    repository.OrderLineAllocationRepository
	txRunner  inventory.TxRunner
	close     func()
}

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var recorder *metrics.Recorder
	var allocMetrics inventory.AllocationMetrics
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		recorder.Register(prometheus.DefaultRegisterer)
		allocMetrics = recorder
	}

	ledger := inventory.NewLedger(store.txRunner, allocMetrics)
	orderLines := inventory.NewOrderLineService(
		ledger, store.products, store.stock, store.allocs, store.locations,
		infrapdf.NewMarotoPickingSlipGenerator(cfg.App.Name), log,
	)
	locationUC := usecase.NewLocationUseCase(store.locations)
	productUC := usecase.NewProductUseCase(store.products, store.stock, store.locations)

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Locations API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		LocationUC:  locationUC,
		ProductUC:   productUC,
		OrderLines:  orderLines,
		Log:         log,
		Metrics:     recorder,
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

// openStorage construye los repositorios según STORAGE_DRIVER. Con postgres aplica migraciones antes de abrir el pool.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &storage{
			locations: memory.NewLocationRepository(mem),
			products:  memory.NewProductRepository(mem),
			stock:     memory.NewLocationStockRepository(mem),
			allocs:    memory.NewOrderLineAllocationRepository(mem),
			txRunner:  memory.NewTxRunner(mem),
			close:     func() {},
		}, nil
	}

	if err := postgres.Migrate(cfg.DB, log); err != nil {
		return nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		locations: postgres.NewLocationRepository(pool),
		products:  postgres.NewProductRepository(pool),
		stock:     postgres.NewLocationStockRepository(pool),
		allocs:    postgres.NewOrderLineAllocationRepository(pool),
		txRunner:  postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
