/**
 * @description
 * Deposit API Handlers.
 * Thin proxy over the Polymarket bridge: generates per-user deposit
 * addresses for a chosen chain and checks deposit status. Field renaming
 * only, no aggregation.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/polymarket/bridge
 */

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/polytickers/backend/internal/logger"
	"github.com/polytickers/backend/internal/polymarket/bridge"
)

type DepositHandler struct {
	Bridge *bridge.Client
}

func NewDepositHandler(client *bridge.Client) *DepositHandler {
	return &DepositHandler{Bridge: client}
}

// GetDepositAddress returns the deposit address for a user on the requested chain
// GET /api/v1/deposit?address=0x...&chain=solana|base|ethereum
func (h *DepositHandler) GetDepositAddress(c *fiber.Ctx) error {
	userAddress := c.Query("address")
	chain := c.Query("chain", "solana")

	if userAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address required"})
	}

	addresses, err := h.Bridge.RequestDepositAddresses(c.Context(), userAddress)
	if err != nil {
		logger.Error("Deposit address request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to get deposit address",
			"message": err.Error(),
		})
	}

	var depositAddress, depositChain, instructions string
	var supportedAssets []string

	switch chain {
	case "solana":
		depositAddress = addresses.SVM
		depositChain = "Solana"
		instructions = "Send SOL or USDC-SPL to this address. Funds will be auto-converted to USDC.e on Polygon."
		supportedAssets = []string{"SOL", "USDC"}
	case "base", "ethereum":
		depositAddress = addresses.EVM
		depositChain = "Base"
		if chain == "ethereum" {
			depositChain = "Ethereum"
		}
		instructions = fmt.Sprintf("Send USDC on %s to this address. Funds will be auto-bridged to Polygon.", depositChain)
		supportedAssets = []string{"USDC", "ETH"}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chain. Use: solana, base, ethereum",
		})
	}

	return c.JSON(fiber.Map{
		"depositAddress":  depositAddress,
		"chain":           depositChain,
		"instructions":    instructions,
		"supportedAssets": supportedAssets,
		"note":            "Funds typically arrive in 1-5 minutes",
	})
}

type depositStatusRequest struct {
	DepositAddress string `json:"depositAddress"`
}

// PostDepositStatus checks the bridge for deposits observed on an address
// POST /api/v1/deposit/status
func (h *DepositHandler) PostDepositStatus(c *fiber.Ctx) error {
	var req depositStatusRequest
	if err := c.BodyParser(&req); err != nil || req.DepositAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "depositAddress required"})
	}

	status, err := h.Bridge.GetDepositStatus(c.Context(), req.DepositAddress)
	if err != nil {
		logger.Error("Deposit status check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check status"})
	}

	deposits := status.Deposits
	if deposits == nil {
		deposits = []bridge.Deposit{}
	}

	return c.JSON(fiber.Map{
		"status":         status.Status,
		"deposits":       deposits,
		"totalDeposited": status.TotalDeposited,
	})
}
