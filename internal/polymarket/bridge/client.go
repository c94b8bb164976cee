/**
 * @description
 * HTTP Client for the Polymarket deposit bridge.
 * Generates per-user deposit addresses across chains and checks deposit status.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/polytickers/backend/internal/config"
	"github.com/polytickers/backend/internal/logger"
)

const (
	DefaultTimeout = 15 * time.Second
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.Polymarket.BridgeURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// RequestDepositAddresses asks the bridge to generate (or return) the deposit
// addresses bound to a user's wallet address.
func (c *Client) RequestDepositAddresses(ctx context.Context, userAddress string) (*DepositAddresses, error) {
	if strings.TrimSpace(userAddress) == "" {
		return nil, fmt.Errorf("address is required")
	}

	payload, err := json.Marshal(map[string]string{"address": userAddress})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/deposit", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("Bridge API error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("bridge api error: status %d", resp.StatusCode)
	}

	var addresses DepositAddresses
	if err := json.NewDecoder(resp.Body).Decode(&addresses); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}

	return &addresses, nil
}

// GetDepositStatus checks the bridge for deposits observed on an address
func (c *Client) GetDepositStatus(ctx context.Context, depositAddress string) (*DepositStatus, error) {
	if strings.TrimSpace(depositAddress) == "" {
		return nil, fmt.Errorf("depositAddress is required")
	}

	u := fmt.Sprintf("%s/status/%s", c.BaseURL, depositAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge status error: status %d", resp.StatusCode)
	}

	var status DepositStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode bridge status: %w", err)
	}

	return &status, nil
}
