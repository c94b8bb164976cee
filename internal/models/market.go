/**
 * @description
 * Normalized market model — the single output shape of the aggregation pipeline.
 * Every upstream listing that survives discovery and enrichment is reshaped
 * into one of these; the frontend consumes nothing else.
 *
 * @notes
 * - Records are rebuilt from upstream on every request. Nothing here is persisted.
 * - PriceSource tags provenance so consumers can tell live CLOB data from the
 *   synthetic demo set emitted when upstreams are unreachable.
 */

package models

// Price provenance values
const (
	PriceSourceClob = "clob"
	PriceSourceDemo = "demo"
)

// Response-level source values
const (
	SourceLive         = "polymarket-clob"
	SourceDemoFallback = "demo-fallback"
)

// Asset symbols derived from market question text
const (
	AssetBTC     = "BTC"
	AssetETH     = "ETH"
	AssetSOL     = "SOL"
	AssetBNB     = "BNB"
	AssetXRP     = "XRP"
	AssetDOGE    = "DOGE"
	AssetAVAX    = "AVAX"
	AssetLINK    = "LINK"
	AssetUnknown = "CRYPTO"
)

// Outcome is one tradable side of a binary market
type Outcome struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	TokenID string  `json:"tokenId"`
}

// Market is the canonical market record exposed to the frontend
type Market struct {
	ID          string    `json:"id"`
	ConditionID string    `json:"conditionId"`
	Question    string    `json:"question"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	Asset       string    `json:"asset"`
	Category    string    `json:"category"`
	EndDate     *string   `json:"endDate"`
	Outcomes    []Outcome `json:"outcomes"`
	Volume      float64   `json:"volume"`
	Liquidity   float64   `json:"liquidity"`
	YesPrice    float64   `json:"yesPrice"`
	NoPrice     float64   `json:"noPrice"`
	YesTokenID  string    `json:"yesTokenId"`
	NoTokenID   string    `json:"noTokenId"`
	HasTokenIDs bool      `json:"hasTokenIds"`
	PriceSource string    `json:"priceSource"`
}

// MarketsResponse is the envelope returned by GET /api/v1/markets
type MarketsResponse struct {
	Markets   []Market `json:"markets"`
	Count     int      `json:"count"`
	Source    string   `json:"source"`
	Error     string   `json:"error,omitempty"`
	Timestamp int64    `json:"timestamp"`
}
