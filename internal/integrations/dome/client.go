/**
 * @description
 * Client for the DOME trade-execution router.
 * Links wallets for gasless trading and relays order placement/cancellation
 * to Polymarket on the user's behalf. Pure request forwarding with
 * snake_case field mapping; no aggregation logic lives here.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package dome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/polytickers/backend/internal/config"
	"github.com/polytickers/backend/internal/logger"
)

const (
	requestTimeout = 15 * time.Second
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Dome.BaseURL,
		apiKey:  cfg.Dome.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Configured reports whether an API key is present. Handlers reject trade
// requests up front when it is not.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// LinkPayload carries the EIP-712 typed data a user must sign to link a wallet
type LinkPayload struct {
	Payload json.RawMessage `json:"payload"`
}

// LinkResult carries the router credentials issued once a signature is verified
type LinkResult struct {
	Credentials json.RawMessage `json:"credentials"`
}

// OrderParams describes an order relayed through the router
type OrderParams struct {
	UserID      string          `json:"user_id"`
	TokenID     string          `json:"token_id"`
	Side        string          `json:"side"`  // "buy" | "sell"
	Size        float64         `json:"size"`  // number of shares
	Price       float64         `json:"price"` // 0-1
	Credentials json.RawMessage `json:"credentials,omitempty"`
}

// OrderResult is the router's acknowledgement of a placed order
type OrderResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// OrdersResponse wraps the open-orders listing
type OrdersResponse struct {
	Orders []json.RawMessage `json:"orders"`
}

// Link requests the EIP-712 payload a wallet must sign to enable routing
func (c *Client) Link(ctx context.Context, userID, walletAddress string) (*LinkPayload, error) {
	body := map[string]string{
		"user_id":        userID,
		"wallet_address": walletAddress,
	}

	var result LinkPayload
	if err := c.post(ctx, "/polymarket/router/link", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteLink finalizes wallet linking with the user's signature
func (c *Client) CompleteLink(ctx context.Context, userID, walletAddress, signature string) (*LinkResult, error) {
	body := map[string]string{
		"user_id":        userID,
		"wallet_address": walletAddress,
		"signature":      signature,
	}

	var result LinkResult
	if err := c.post(ctx, "/polymarket/router/link/complete", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PlaceOrder relays a signed-credential order to the router
func (c *Client) PlaceOrder(ctx context.Context, params OrderParams) (*OrderResult, error) {
	var result OrderResult
	if err := c.post(ctx, "/polymarket/router/order", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder cancels a routed order
func (c *Client) CancelOrder(ctx context.Context, userID, orderID string, credentials json.RawMessage) error {
	body := map[string]interface{}{
		"user_id": userID,
	}
	if len(credentials) > 0 {
		body["credentials"] = credentials
	}

	path := fmt.Sprintf("/polymarket/router/order/%s", url.PathEscape(orderID))
	return c.do(ctx, http.MethodDelete, path, body, nil)
}

// GetOrders lists a wallet's open orders. Returns an empty slice on upstream
// failure: the caller's contract is best-effort.
func (c *Client) GetOrders(ctx context.Context, walletAddress string, limit int) []json.RawMessage {
	if limit <= 0 {
		limit = 50
	}

	q := url.Values{
		"user":  {walletAddress},
		"limit": {strconv.Itoa(limit)},
	}
	path := fmt.Sprintf("/polymarket/orders?%s", q.Encode())

	var result OrdersResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		logger.Error("DOME orders fetch failed: %v", err)
		return []json.RawMessage{}
	}
	if result.Orders == nil {
		return []json.RawMessage{}
	}
	return result.Orders
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, payload, result)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, result interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("dome api key is not configured")
	}

	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dome request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("DOME API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		return fmt.Errorf("dome api error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode dome response: %w", err)
		}
	}

	return nil
}
