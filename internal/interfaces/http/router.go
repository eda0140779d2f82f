package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/application/usecase"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	LocationUC  *usecase.LocationUseCase
	ProductUC   *usecase.ProductUseCase
	OrderLines  *inventory.OrderLineService
	Log         *logger.Logger
	// Metrics nil desactiva /metrics y el conteo de peticiones.
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
}

// AppConfig configuración de fiber para la API.
// Immutable: los IDs de ruta se guardan como claves y campos en los repositorios.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Metrics != nil {
		app.Use(RequestMetrics(deps.Metrics))
		gatherer := deps.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Log)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/locations", productHandler.GetLocations)
	products.Put("/:id/locations", productHandler.SetLocations)

	allocationHandler := NewAllocationHandler(deps.OrderLines, deps.Log)
	api.Post("/allocations/plan", allocationHandler.Plan)

	orders := api.Group("/orders/:orderId")
	orders.Post("/lines", allocationHandler.NewOrderLine)
	orders.Put("/allocations", allocationHandler.SaveOrderEdit)
	orders.Get("/allocations", allocationHandler.ListOrderAllocations)
	orders.Post("/edit-form", allocationHandler.EditForm)
	orders.Get("/picking-slip", allocationHandler.PickingSlip)

	lines := api.Group("/order-lines/:lineId")
	lines.Get("/allocation", allocationHandler.GetAllocation)
	lines.Delete("/allocation", allocationHandler.DeleteAllocation)
}

// RequestMetrics cuenta peticiones por método, ruta registrada y estado.
func RequestMetrics(rec *metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rec.ObserveRequest(utils.CopyString(c.Method()), utils.CopyString(c.Route().Path), status)
		return err
	}
}
