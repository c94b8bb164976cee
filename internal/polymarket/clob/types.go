/**
 * @description
 * Data structures for the Polymarket CLOB price endpoints.
 *
 * @notes
 * - The CLOB returns prices as stringified floats ("0.545"); parsing lives
 *   in the client so callers only ever see float64 values.
 */

package clob

// MidpointResponse is the payload of GET /midpoint
type MidpointResponse struct {
	Mid string `json:"mid"`
}

// PriceResponse is the payload of GET /price
type PriceResponse struct {
	Price string `json:"price"`
}

// Side of a price lookup on /price
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)
