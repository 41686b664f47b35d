package router

import (
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/backend"
	"github.com/anonto42/nano-midea/socialgraph/internal/handlers"
	"github.com/anonto42/nano-midea/socialgraph/internal/middleware"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/anonto42/nano-midea/socialgraph/internal/services"
	"github.com/anonto42/nano-midea/socialgraph/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies are the services and settings the routes are built from
type Dependencies struct {
	Graph *services.GraphService
	Feed  services.FeedAssembler
	Users repositories.UserDirectory
	Posts repositories.PostWriter
	// Registry, when set, receives every authenticated caller not yet in the directory
	Registry       repositories.UserWriter
	Auth           echo.MiddlewareFunc
	Backend        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Wire builds the services over the opened stores
func Wire(stores *backend.Stores, cfg *config.Config, auth echo.MiddlewareFunc, logger *zap.Logger) Dependencies {
	graph := services.NewGraphService(stores.Edges, stores.Users, logger.Named("graph"))
	feed := services.NewPullFeedAssembler(graph, stores.Posts, stores.Users,
		services.FeedOptions{IncludeOwnPosts: cfg.FeedIncludeOwnPosts}, logger.Named("feed"))

	return Dependencies{
		Graph:          graph,
		Feed:           feed,
		Users:          stores.Users,
		Posts:          stores.Publish,
		Registry:       stores.Seed,
		Auth:           auth,
		Backend:        string(stores.Kind()),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.HTTPErrorHandler = handlers.ErrorHandler(deps.Logger)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.Backend).HealthCheck)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(deps.Auth)
	api.Use(eMiddleware.ContextTimeoutWithConfig(eMiddleware.ContextTimeoutConfig{
		Timeout: deps.RequestTimeout,
		// keep the handler's own status for deadline errors
		ErrorHandler: func(err error, c echo.Context) error { return err },
	}))
	if deps.Registry != nil {
		api.Use(middleware.RegisterCaller(deps.Registry, deps.Logger.Named("registry")))
	}

	followHandler := handlers.NewFollowHandler(deps.Graph)
	followHandler.RegisterFollowRoutes(api)
	deps.Logger.Debug("follow routes configured")

	feedHandler := handlers.NewFeedHandler(deps.Feed)
	feedHandler.RegisterFeedRoutes(api)
	deps.Logger.Debug("feed routes configured")

	userHandler := handlers.NewUserHandler(deps.Users)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(deps.Posts)
	postHandler.RegisterPostRoutes(api)
	deps.Logger.Debug("user and post routes configured")
}
