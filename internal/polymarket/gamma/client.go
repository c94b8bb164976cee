/**
 * @description
 * HTTP Client for the Polymarket Gamma API.
 * Fetches event and market listings used by the discovery stage.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
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
		BaseURL: cfg.Polymarket.GammaURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// ListParams holds query parameters shared by the /events and /markets listings
type ListParams struct {
	Limit  int
	Offset int
	Active *bool
	Closed *bool
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Active != nil {
		q.Set("active", strconv.FormatBool(*p.Active))
	}
	if p.Closed != nil {
		q.Set("closed", strconv.FormatBool(*p.Closed))
	}
	return q.Encode()
}

// GetEvents fetches a list of events from Gamma
func (c *Client) GetEvents(ctx context.Context, params ListParams) ([]Event, error) {
	var events []Event
	if err := c.getList(ctx, "/events", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetMarkets fetches a flat list of markets from Gamma.
// This is the broader listing used when the event search comes up empty.
func (c *Client) GetMarkets(ctx context.Context, params ListParams) ([]Market, error) {
	var markets []Market
	if err := c.getList(ctx, "/markets", params, &markets); err != nil {
		return nil, err
	}
	return markets, nil
}

func (c *Client) getList(ctx context.Context, path string, params ListParams, result interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	u.RawQuery = params.encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gamma api error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return err
	}

	return nil
}
