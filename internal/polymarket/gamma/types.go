/**
 * @description
 * Type definitions for the Polymarket Gamma API responses.
 * These structs map to the JSON returned by /events and /markets.
 *
 * @notes
 * - Gamma is loose about types: outcomes, prices, token ids, volume and
 *   liquidity arrive either as native JSON arrays/numbers or as stringified
 *   JSON depending on endpoint and age of the market. Fields of that kind
 *   are declared as interface{} and parsed through the helpers below.
 */

package gamma

import (
	"encoding/json"
	"strconv"
)

// Event represents an event object from the Gamma API
type Event struct {
	ID      string   `json:"id"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Active  bool     `json:"active"`
	Closed  bool     `json:"closed"`
	Tags    []Tag    `json:"tags"`
	Markets []Market `json:"markets"`
}

// Market represents a market object from the Gamma API
type Market struct {
	ID            string      `json:"id"`
	ConditionID   string      `json:"conditionId"`
	Slug          string      `json:"slug"`
	MarketSlug    string      `json:"market_slug"`
	Question      string      `json:"question"`
	Description   string      `json:"description"`
	Image         string      `json:"image"`
	Active        bool        `json:"active"`
	Closed        bool        `json:"closed"`
	ClobTokenIDs  interface{} `json:"clobTokenIds"`  // array of strings or stringified JSON
	Outcomes      interface{} `json:"outcomes"`      // array of strings or stringified JSON
	OutcomePrices interface{} `json:"outcomePrices"` // array of strings or stringified JSON
	Volume        interface{} `json:"volume"`        // string or number
	VolumeNum     float64     `json:"volumeNum"`
	Liquidity     interface{} `json:"liquidity"` // string or number
	LiquidityNum  float64     `json:"liquidityNum"`
	EndDateISO    string      `json:"endDateIso"`
	EndDateTS     string      `json:"end_date_iso"`
}

// Tag represents a tag object attached to an event
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// TokenIDs returns the market's CLOB token ids in listing order.
// Handles both the native-array and stringified-JSON encodings; returns nil
// when the field is absent or unparseable.
func (m *Market) TokenIDs() []string {
	return ParseStringSlice(m.ClobTokenIDs)
}

// SlugValue prefers the camelCase slug and falls back to market_slug
func (m *Market) SlugValue() string {
	if m.Slug != "" {
		return m.Slug
	}
	return m.MarketSlug
}

// VolumeValue resolves the market's traded volume, preferring volumeNum
func (m *Market) VolumeValue() float64 {
	if m.VolumeNum > 0 {
		return m.VolumeNum
	}
	return ParseFloatSafe(m.Volume)
}

// LiquidityValue resolves the market's liquidity, preferring liquidityNum
func (m *Market) LiquidityValue() float64 {
	if m.LiquidityNum > 0 {
		return m.LiquidityNum
	}
	return ParseFloatSafe(m.Liquidity)
}

// EndDateValue returns the market end timestamp, or nil when absent
func (m *Market) EndDateValue() *string {
	if m.EndDateISO != "" {
		v := m.EndDateISO
		return &v
	}
	if m.EndDateTS != "" {
		v := m.EndDateTS
		return &v
	}
	return nil
}

// ParseStringSlice coerces a Gamma array field into []string.
// Accepts a native JSON array, a []string, or a JSON-encoded string like
// "[\"a\", \"b\"]". Returns nil when the value is absent or malformed.
func ParseStringSlice(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

// ParseFloatSafe coerces a Gamma numeric field (number or string) to float64
func ParseFloatSafe(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
