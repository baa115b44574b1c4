package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskdeck/todo-webapp/internal/api/handler"
	"github.com/taskdeck/todo-webapp/internal/api/middleware"
	"github.com/taskdeck/todo-webapp/internal/api/session"
	"github.com/taskdeck/todo-webapp/internal/core/service"
	"github.com/taskdeck/todo-webapp/internal/infrastructure/db/sqlite"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb is nil when sessions run on the in-memory backend.
func NewRouter(db *sql.DB, sessions *session.Manager, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = NewRenderer()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// HTTP metrics live in a per-router registry so building a second router
	// in the same process cannot trip duplicate collector registration.
	promRegistry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "todoapp",
		Registerer: promRegistry,
	}))
	e.Use(middleware.NoCache())
	e.Use(sessions.Middleware())

	// --- Dependencies ---
	userRepo := sqlite.NewUserRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	authService := service.NewAuthService(userRepo, log)
	taskService := service.NewTaskService(taskRepo, log)
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	requireUser := middleware.RequireUser()

	// --- Pages and actions ---
	e.GET("/", taskHandler.Index, requireUser)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.GET("/todo", taskHandler.TodoPage)
	e.POST("/add_task", taskHandler.Add, requireUser)
	e.POST("/toggle_task/:id", taskHandler.Toggle, requireUser)
	e.POST("/delete_task/:id", taskHandler.Delete, requireUser)

	// --- Probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)              // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)    // readiness – are dependencies up?
	// /metrics serves both this router's HTTP metrics and the process-wide
	// domain counters from the default registry.
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, promRegistry},
	}))

	return e
}
