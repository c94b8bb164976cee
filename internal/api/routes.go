/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/services
 * - backend/internal/polymarket/gamma
 * - backend/internal/polymarket/clob
 * - backend/internal/polymarket/bridge
 * - backend/internal/integrations/dome
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/polytickers/backend/internal/api/handlers"
	"github.com/polytickers/backend/internal/config"
	"github.com/polytickers/backend/internal/integrations/dome"
	"github.com/polytickers/backend/internal/polymarket/bridge"
	"github.com/polytickers/backend/internal/polymarket/clob"
	"github.com/polytickers/backend/internal/polymarket/gamma"
	"github.com/polytickers/backend/internal/services"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize upstream clients
	gammaClient := gamma.NewClient(cfg)
	clobClient := clob.NewClient(cfg)
	bridgeClient := bridge.NewClient(cfg)
	domeClient := dome.NewClient(cfg)

	// 2. Initialize Services
	marketService := services.NewMarketService(gammaClient, clobClient, rdb)

	// 3. Initialize Handlers
	marketHandler := handlers.NewMarketHandler(marketService)
	depositHandler := handlers.NewDepositHandler(bridgeClient)
	tradeHandler := handlers.NewTradeHandler(domeClient)

	// 4. Define Routes
	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Market listing (the aggregation pipeline)
	v1.Get("/markets", marketHandler.GetMarkets)

	// Deposit bridge proxy
	v1.Get("/deposit", depositHandler.GetDepositAddress)
	v1.Post("/deposit/status", depositHandler.PostDepositStatus)

	// Trade router proxy
	v1.Post("/trade", tradeHandler.PostTrade)
	v1.Get("/trade", tradeHandler.GetOrders)
}
