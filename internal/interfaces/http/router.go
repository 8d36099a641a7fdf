package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/pkg/jwt"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reservations *fulfillment.ReservationManager
	Allocation   *fulfillment.AllocationEngine
	Generator    *fulfillment.PickListGenerator
	Route        *fulfillment.RouteOptimizer
	Execution    *fulfillment.PickExecution
	Waves        *fulfillment.WaveOrchestrator
	JWTSecret    string
	Log          *logger.Logger // opcional; nil desactiva el log de peticiones
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las mutaciones de planificación son solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log.Component("http")))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	floor := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Stock y libro de inventario
	stockHandler := NewStockHandler(deps.Reservations, deps.Allocation)
	api.Get("/stock", floor, stockHandler.Get)
	api.Post("/stock/reserve", adminOnly, stockHandler.Reserve)
	api.Post("/stock/unreserve", adminOnly, stockHandler.Unreserve)
	api.Post("/stock/move", floor, stockHandler.Move)
	api.Post("/stock/adjust", adminOnly, stockHandler.Adjust)
	api.Post("/allocations", floor, stockHandler.Allocate)
	api.Get("/ledger/:reference", floor, stockHandler.Ledger)
	api.Get("/products/:product_id/transactions", floor, stockHandler.History)

	// Listas de picking
	pickingHandler := NewPickingHandler(deps.Generator, deps.Route, deps.Execution)
	pickLists := api.Group("/pick-lists")
	pickLists.Post("/", adminOnly, pickingHandler.Generate)
	pickLists.Get("/:id", floor, pickingHandler.Get)
	pickLists.Post("/:id/optimize", floor, pickingHandler.Optimize)
	pickLists.Post("/:id/assign", adminOnly, pickingHandler.Assign)
	pickLists.Post("/:id/items/:item_id/pick", floor, pickingHandler.RecordPick)
	pickLists.Post("/:id/complete", floor, pickingHandler.Complete)
	pickLists.Post("/:id/cancel", adminOnly, pickingHandler.Cancel)

	// Olas
	waveHandler := NewWaveHandler(deps.Waves)
	waves := api.Group("/waves")
	waves.Post("/auto", adminOnly, waveHandler.CreateAuto)
	waves.Get("/:id", floor, waveHandler.Get)
	waves.Get("/:id/metrics", floor, waveHandler.Metrics)
	waves.Post("/:id/release", adminOnly, waveHandler.Release)
	waves.Post("/:id/start", floor, waveHandler.Start)
	waves.Post("/:id/cancel", adminOnly, waveHandler.Cancel)
}
