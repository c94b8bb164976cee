/**
 * @description
 * Synthetic demo markets emitted when the upstream listing API is
 * unreachable. The caller of the pipeline always receives a non-empty,
 * well-formed list; these three entries are that guarantee.
 */

package services

import (
	"time"

	"github.com/polytickers/backend/internal/models"
)

const demoFallbackError = "API unavailable, showing demo markets"

// demoMarkets returns the fixed fallback set. End times are computed
// relative to now so the entries always look live.
func demoMarkets(now time.Time) []models.Market {
	end := now.Add(4 * time.Hour).UTC().Format(time.RFC3339)

	return []models.Market{
		{
			ID:          "demo-btc-1",
			ConditionID: "demo-btc-1",
			Question:    "Will BTC be above $100,000 at 4PM ET?",
			Slug:        "btc-100k-4pm",
			Asset:       models.AssetBTC,
			Category:    "crypto",
			EndDate:     &end,
			Outcomes: []models.Outcome{
				{Name: "Up", Price: 0.52, TokenID: "demo-btc-yes"},
				{Name: "Down", Price: 0.48, TokenID: "demo-btc-no"},
			},
			Volume:      125000,
			YesPrice:    0.52,
			NoPrice:     0.48,
			YesTokenID:  "demo-btc-yes",
			NoTokenID:   "demo-btc-no",
			HasTokenIDs: true,
			PriceSource: models.PriceSourceDemo,
		},
		{
			ID:          "demo-eth-1",
			ConditionID: "demo-eth-1",
			Question:    "Will ETH be above $3,500 at 4PM ET?",
			Slug:        "eth-3500-4pm",
			Asset:       models.AssetETH,
			Category:    "crypto",
			EndDate:     &end,
			Outcomes: []models.Outcome{
				{Name: "Up", Price: 0.48, TokenID: "demo-eth-yes"},
				{Name: "Down", Price: 0.52, TokenID: "demo-eth-no"},
			},
			Volume:      89000,
			YesPrice:    0.48,
			NoPrice:     0.52,
			YesTokenID:  "demo-eth-yes",
			NoTokenID:   "demo-eth-no",
			HasTokenIDs: true,
			PriceSource: models.PriceSourceDemo,
		},
		{
			ID:          "demo-sol-1",
			ConditionID: "demo-sol-1",
			Question:    "Will SOL be above $200 at 4PM ET?",
			Slug:        "sol-200-4pm",
			Asset:       models.AssetSOL,
			Category:    "crypto",
			EndDate:     &end,
			Outcomes: []models.Outcome{
				{Name: "Up", Price: 0.55, TokenID: "demo-sol-yes"},
				{Name: "Down", Price: 0.45, TokenID: "demo-sol-no"},
			},
			Volume:      67000,
			YesPrice:    0.55,
			NoPrice:     0.45,
			YesTokenID:  "demo-sol-yes",
			NoTokenID:   "demo-sol-no",
			HasTokenIDs: true,
			PriceSource: models.PriceSourceDemo,
		},
	}
}

// demoResponse wraps the demo set in the response envelope with the
// fallback provenance tag and degraded-data notice.
func (s *MarketService) demoResponse() *models.MarketsResponse {
	markets := demoMarkets(time.Now())
	return &models.MarketsResponse{
		Markets:   markets,
		Count:     len(markets),
		Source:    models.SourceDemoFallback,
		Error:     demoFallbackError,
		Timestamp: time.Now().UnixMilli(),
	}
}
