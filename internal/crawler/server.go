package crawler

import (
	"errors"
	"log/slog"

	"okai/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// CrawlResponse is the crawl endpoint's JSON envelope.
type CrawlResponse struct {
	Success  bool      `json:"success"`
	Articles []Article `json:"articles,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// NewApp builds the standalone crawler service: POST /api/crawl/naver-news
// runs one crawl, GET /health reports liveness. The crawler writes nothing;
// the caller persists the results.
func NewApp(c *Crawler, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "OK AI Crawler",
	})

	app.Use(recover.New())
	app.Use(cors.New())

	prom := fiberprometheus.New("okai-crawler")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Post("/api/crawl/naver-news", func(ctx *fiber.Ctx) error {
		logger.Info("crawl request received")

		articles, err := c.Crawl(ctx.UserContext())
		if err != nil {
			observability.CrawlerRuns.WithLabelValues("error").Inc()
			logger.Error("crawl failed", slog.String("error", err.Error()))
			status := fiber.StatusInternalServerError
			if errors.Is(err, ErrPageNotReady) {
				// Distinguish a blocked/changed page from an upstream error.
				status = fiber.StatusBadGateway
			}
			return ctx.Status(status).JSON(CrawlResponse{
				Success: false,
				Error:   err.Error(),
			})
		}

		observability.CrawlerRuns.WithLabelValues("ok").Inc()
		return ctx.JSON(CrawlResponse{
			Success:  true,
			Articles: articles,
		})
	})

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	return app
}
