package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/users/api/handler"
	"github.com/fastygo/users/internal/middleware"
)

type Handlers struct {
	User     *apiHandler.UserHandler
	Health   *apiHandler.HealthHandler
	Fallback *apiHandler.FallbackHandler
}

// Options configures the cross-cutting layers wrapped around the route table.
type Options struct {
	Logger  *zap.Logger
	Metrics *middleware.Metrics
	// Auth guards mutating user routes; nil leaves them open.
	Auth middleware.Middleware
}

// New registers the routes and wraps them in the middleware chain:
// request id, CORS, logging, then metrics.
func New(handlers Handlers, opts Options) fasthttp.RequestHandler {
	r := router.New()
	r.SaveMatchedRoutePath = true

	guard := opts.Auth
	if guard == nil {
		guard = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}
	if opts.Metrics != nil {
		r.GET("/metrics", opts.Metrics.Handler())
	}

	r.POST("/users", guard(handlers.User.Create))
	r.GET("/users", handlers.User.List)
	r.GET("/users/{id}", handlers.User.Get)
	r.PATCH("/users/{id}", guard(handlers.User.Update))
	r.DELETE("/users/{id}", guard(handlers.User.Delete))
	r.PATCH("/users/{id}/activate", guard(handlers.User.Activate))
	r.PATCH("/users/{id}/deactivate", guard(handlers.User.Deactivate))

	fallback := handlers.Fallback
	if fallback == nil {
		fallback = apiHandler.NewFallbackHandler(opts.Logger)
	}
	r.NotFound = fallback.NotFound
	r.MethodNotAllowed = fallback.MethodNotAllowed
	r.GlobalOPTIONS = fallback.Preflight
	r.PanicHandler = fallback.Panic

	var metrics middleware.Middleware
	if opts.Metrics != nil {
		metrics = opts.Metrics.Middleware()
	}

	return middleware.Chain(r.Handler,
		middleware.RequestID(),
		middleware.CORS(),
		middleware.Logging(opts.Logger),
		metrics,
	)
}
