package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ruetfest/festcrm/internal/api/handler"
	"github.com/ruetfest/festcrm/internal/api/middleware"
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/service"
	"github.com/ruetfest/festcrm/internal/infrastructure/config"
	mongodb "github.com/ruetfest/festcrm/internal/infrastructure/db/mongo"
	redisdb "github.com/ruetfest/festcrm/internal/infrastructure/db/redis"
)

const tokenTTL = 24 * time.Hour

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the login throttle is then disabled.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.Session(cfg.SessionSecret))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	creds := config.EnvCredentials{}
	var throttle service.Throttle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}
	authService := service.NewAuthService(userRepo, creds, throttle, cfg.TokenSecret, tokenTTL, log)
	reconciler := service.NewReconciler(userRepo, creds, log)

	e.Use(middleware.Principal(reconciler, authService, log))

	// --- Session lifecycle ---
	authHandler := handler.NewAuthHandler(authService)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.POST("/api/token", authHandler.Token)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Entity resources ---
	api := e.Group("/api", middleware.RequireAuth())
	for _, desc := range service.Descriptors() {
		repo := mongodb.NewEntityRepository(db, desc.Collection)
		svc := service.NewEntityService(desc, repo, log)
		h := handler.NewEntityHandler(svc)

		g := api.Group("/" + desc.Slug)
		g.POST("/search", h.Search)
		g.POST("/add", h.Add)
		g.GET("/list", h.List)
		g.GET("/download", h.Download)
		g.GET("/count", h.Count)
		g.DELETE("/delete/:id", h.Delete)
		g.PUT("/update/:id", h.Update)
		if desc.Type == domain.EntitySponsor {
			g.GET("/:id", h.Get)
		}
	}

	return e
}
