// Package server contains the HTTP and WebSocket handlers for the sneaker closet.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "sneakercloset/docs" // swagger docs
	"sneakercloset/internal/cache"
	"sneakercloset/internal/config"
	"sneakercloset/internal/database"
	"sneakercloset/internal/featureflags"
	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/notifications"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	sessions       *session.Manager
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	identity       *service.IdentityService
	collection     *service.CollectionService
	social         *service.SocialService
	catalog        *service.CatalogService
	feed           *service.FeedService
}

// NewServer connects to PostgreSQL and Redis and builds a Server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; the server then runs without cache, revocation,
// rate limiting and the live feed.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store := repository.NewStore(db)
	notifier := notifications.NewNotifier(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("sneakercloset-api"),
		sessions:       session.NewManager(cfg.SessionSecret, cfg.SessionTTL(), redisClient),
		notifier:       notifier,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		identity:       service.NewIdentityService(store),
		collection:     service.NewCollectionService(store, notifier),
		social:         service.NewSocialService(store),
		feed:           service.NewFeedService(store),
	}
	s.catalog = service.NewCatalogService(store, s.collection)

	if redisClient != nil {
		s.hub = notifications.NewHub()
	}

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.NoCache())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5000,http://127.0.0.1:5000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.rateLimitDisabled()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	app.Use(s.SessionGate())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Sneaker Closet Metrics Dashboard",
	}))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", s.Home)
	app.Post("/signup", s.authLimit(3, 10*time.Minute, "signup"), s.Signup)
	app.Post("/login", s.authLimit(10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	sneakers := app.Group("/sneakers")
	sneakers.Get("/", s.ListSneakers)
	sneakers.Post("/:id/rotation", s.ToggleRotation)
	sneakers.Get("/:id", s.GetSneaker)

	users := app.Group("/users")
	users.Get("/", s.ListUsers)
	// Fixed paths before the generic /:id routes
	users.Get("/profile", s.GetProfileForm)
	users.Post("/profile", s.UpdateProfile)
	users.Post("/delete", s.DeleteAccount)
	users.Post("/follow/:id", s.Follow)
	users.Post("/stop-following/:id", s.StopFollowing)
	users.Post("/add_own/:itemId", s.AddToCloset)
	users.Post("/remove_own/:itemId", s.RemoveFromCloset)
	users.Post("/add_wishlist/:itemId", s.AddToWishlist)
	users.Post("/remove_wishlist/:itemId", s.RemoveFromWishlist)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/closet", s.GetCloset)
	users.Get("/:id/wishlist", s.GetWishlist)
	users.Get("/:id/rotation", s.GetRotation)
	users.Post("/:id/rotation/remove/:sneakerId", s.RemoveFromRotation)
	users.Get("/:id", s.GetUserProfile)

	app.Get("/notifications", s.GetNotifications)
	app.Get("/ws/notifications", s.LiveFeedRequired(), s.WebsocketHandler())
	app.Get("/feature-flags", s.GetFeatureFlags)

	app.Use(func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Not found"})
	})
}

func (s *Server) rateLimitDisabled() bool {
	return s.config.Env == "development" || s.config.Env == "test"
}

// authLimit applies the Redis fixed-window limiter outside development and test.
func (s *Server) authLimit(limit int, window time.Duration, name string) fiber.Handler {
	if s.rateLimitDisabled() || s.redis == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(s.redis, limit, window, name)
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness check requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis backs caching and the live feed only; the catalog works without it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Sneaker Closet",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start wires the live feed to Redis and serves HTTP until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring",
					slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
