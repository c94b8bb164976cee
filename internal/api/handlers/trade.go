/**
 * @description
 * HTTP Handlers for trade execution.
 * Relays wallet linking and order placement/cancellation to the DOME
 * router. Pure forwarding with field renames; the router holds all
 * execution logic.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/google/uuid
 * - backend/internal/integrations/dome
 */

package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polytickers/backend/internal/integrations/dome"
	"github.com/polytickers/backend/internal/logger"
)

type TradeHandler struct {
	Dome *dome.Client
}

func NewTradeHandler(client *dome.Client) *TradeHandler {
	return &TradeHandler{Dome: client}
}

// TradeRequest is the frontend's action envelope. Which fields are required
// depends on the action.
type TradeRequest struct {
	Action        string          `json:"action"`
	UserID        string          `json:"userId"`
	WalletAddress string          `json:"walletAddress"`
	Signature     string          `json:"signature"`
	TokenID       string          `json:"tokenId"`
	Side          string          `json:"side"`
	Size          float64         `json:"size"`
	Price         float64         `json:"price"`
	Credentials   json.RawMessage `json:"credentials"`
	OrderID       string          `json:"orderId"`
}

// PostTrade handles POST /api/v1/trade
// Dispatches on the action field: link, complete-link, order, cancel.
func (h *TradeHandler) PostTrade(c *fiber.Ctx) error {
	if !h.Dome.Configured() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DOME_API_KEY not configured"})
	}

	var req TradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	switch req.Action {
	case "link":
		return h.link(c, req)
	case "complete-link":
		return h.completeLink(c, req)
	case "order":
		return h.placeOrder(c, req)
	case "cancel":
		return h.cancelOrder(c, req)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid action"})
	}
}

func (h *TradeHandler) link(c *fiber.Ctx, req TradeRequest) error {
	if req.UserID == "" || req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and walletAddress required"})
	}

	payload, err := h.Dome.Link(c.Context(), req.UserID, req.WalletAddress)
	if err != nil {
		return tradeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"payload": payload.Payload,
		"message": "Sign this message to link your wallet for gasless trading",
	})
}

func (h *TradeHandler) completeLink(c *fiber.Ctx, req TradeRequest) error {
	if req.UserID == "" || req.WalletAddress == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId, walletAddress, and signature required"})
	}

	result, err := h.Dome.CompleteLink(c.Context(), req.UserID, req.WalletAddress, req.Signature)
	if err != nil {
		return tradeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"credentials": result.Credentials,
		"message":     "Wallet linked successfully! You can now trade without signing each order.",
	})
}

func (h *TradeHandler) placeOrder(c *fiber.Ctx, req TradeRequest) error {
	if req.UserID == "" || req.TokenID == "" || req.Side == "" || req.Size == 0 || req.Price == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId, tokenId, side, size, and price required",
		})
	}

	relayID := uuid.NewString()
	logger.Info("Relaying order %s: user=%s token=%s side=%s size=%.4f price=%.4f",
		relayID, req.UserID, req.TokenID, req.Side, req.Size, req.Price)

	result, err := h.Dome.PlaceOrder(c.Context(), dome.OrderParams{
		UserID:      req.UserID,
		TokenID:     req.TokenID,
		Side:        req.Side,
		Size:        req.Size,
		Price:       req.Price,
		Credentials: req.Credentials,
	})
	if err != nil {
		logger.Error("Order relay %s failed: %v", relayID, err)
		return tradeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orderId": result.OrderID,
		"status":  result.Status,
		"message": "Order placed successfully",
	})
}

func (h *TradeHandler) cancelOrder(c *fiber.Ctx, req TradeRequest) error {
	if req.UserID == "" || req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and orderId required"})
	}

	if err := h.Dome.CancelOrder(c.Context(), req.UserID, req.OrderID, req.Credentials); err != nil {
		return tradeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled",
	})
}

// GetOrders handles GET /api/v1/trade?wallet=0x...
// Best-effort listing: upstream failure yields an empty list, not an error.
func (h *TradeHandler) GetOrders(c *fiber.Ctx) error {
	wallet := c.Query("wallet")
	if wallet == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet address required"})
	}

	if !h.Dome.Configured() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DOME_API_KEY not configured"})
	}

	orders := h.Dome.GetOrders(c.Context(), wallet, 50)

	return c.JSON(fiber.Map{
		"orders":    orders,
		"positions": []interface{}{},
	})
}

func tradeError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Trade failed",
		"message": err.Error(),
	})
}
