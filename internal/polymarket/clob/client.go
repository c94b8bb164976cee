/**
 * @description
 * HTTP Client for the Polymarket CLOB price endpoints.
 * Serves the price-enrichment stage: order-book midpoints with a
 * last-trade fallback.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package clob

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/polytickers/backend/internal/config"
)

const (
	DefaultTimeout = 10 * time.Second
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.Polymarket.ClobURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// GetMidpoint fetches the order-book midpoint for a token.
// The midpoint is the average of best bid and best ask, used as the token's
// live probability estimate.
func (c *Client) GetMidpoint(ctx context.Context, tokenID string) (float64, error) {
	if strings.TrimSpace(tokenID) == "" {
		return 0, fmt.Errorf("tokenID is required")
	}

	var resp MidpointResponse
	if err := c.get(ctx, "/midpoint", url.Values{"token_id": {tokenID}}, &resp); err != nil {
		return 0, err
	}

	return parsePrice(resp.Mid)
}

// GetPrice fetches the last-trade price for a token on the given side
func (c *Client) GetPrice(ctx context.Context, tokenID string, side Side) (float64, error) {
	if strings.TrimSpace(tokenID) == "" {
		return 0, fmt.Errorf("tokenID is required")
	}

	q := url.Values{
		"token_id": {tokenID},
		"side":     {string(side)},
	}

	var resp PriceResponse
	if err := c.get(ctx, "/price", q, &resp); err != nil {
		return 0, err
	}

	return parsePrice(resp.Price)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("clob request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clob api error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode clob response: %w", err)
	}

	return nil
}

func parsePrice(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return f, nil
}
