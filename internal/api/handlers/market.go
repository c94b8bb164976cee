/**
 * @description
 * Market API Handlers.
 * Exposes the normalized crypto up/down market listing.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/polytickers/backend/internal/services"
)

type MarketHandler struct {
	Service *services.MarketService
}

func NewMarketHandler(service *services.MarketService) *MarketHandler {
	return &MarketHandler{Service: service}
}

// GetMarkets returns normalized crypto up/down markets with live prices.
// Always responds 200; when upstreams are down the payload carries the demo
// set with source "demo-fallback" and an error notice.
// GET /api/v1/markets?limit=20
func (h *MarketHandler) GetMarkets(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultMarketLimit)

	resp := h.Service.GetMarkets(c.Context(), limit)
	return c.JSON(resp)
}
