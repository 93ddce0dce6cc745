package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AppConfig configures the Fiber application.
type AppConfig struct {
	RateLimitPerMinute int                 // 0 disables rate limiting
	AllowOrigins       string              // CORS origins (default: "*")
	AccessLog          bool                // Log every request
	Gatherer           prometheus.Gatherer // Served at /metrics when set
	BodyLimit          int                 // Bytes (default: 8MB)
}

// NewApp builds the application with middleware and all routes mounted.
func NewApp(h *Handler, cfg AppConfig) *fiber.App {
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 8 * 1024 * 1024
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "trendcastd",
		AppName:       "trendcastd",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  time.Minute,
		BodyLimit:     cfg.BodyLimit,
		ErrorHandler:  ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		}))
	}
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error: "Rate limit exceeded. Please try again later.",
					Code:  fiber.StatusTooManyRequests,
				})
			},
		}))
	}

	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	h.Register(app)
	return app
}
