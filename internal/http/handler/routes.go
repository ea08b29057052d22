package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"repoapi/internal/appstate"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// The state is attached once here; each entity group resolves its repository from it.
// pingers are the dependencies /health checks; none means the process only serves memory.
func RegisterRoutes(app *fiber.App, st *appstate.State, gatherer prometheus.Gatherer, pingers ...Pinger) {
	app.Get("/health", HealthCheck(pingers...))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	userRoutes(app.Group("/"+appstate.KindUser), st)
	itemRoutes(app.Group("/"+appstate.KindItem), st)
}

// userRoutes mounts the user lookup.
//
//	@Summary	Get user by id
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	model.User
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/user/{id} [get]
func userRoutes(r fiber.Router, st *appstate.State) {
	Mount(r, st, appstate.Users, appstate.KindUser)
}

// itemRoutes mounts the item lookup.
//
//	@Summary	Get item by id
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	model.Item
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/item/{id} [get]
func itemRoutes(r fiber.Router, st *appstate.State) {
	Mount(r, st, appstate.Items, appstate.KindItem)
}
