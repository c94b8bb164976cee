/**
 * @description
 * Normalization stage: converts one discovered candidate (plus an optional
 * live-enriched price) into the canonical market record.
 *
 * @notes
 * - Outcome names and prices arrive in whatever shape Gamma felt like
 *   sending; parsing is lenient and substitutes defaults rather than failing.
 * - A live price always wins over the listing's own prices, and the negative
 *   side is derived as its complement. When no live price was obtained the
 *   listing's price pair is kept as-is for both sides.
 */

package services

import (
	"strconv"

	"github.com/polytickers/backend/internal/models"
	"github.com/polytickers/backend/internal/polymarket/gamma"
)

var (
	defaultOutcomeNames   = []string{"Yes", "No"}
	malformedOutcomeNames = []string{"Up", "Down"}
	defaultOutcomePrices  = []string{"0.5", "0.5"}
)

// normalizeCandidate reshapes a raw listing into a models.Market.
// livePrice is the enriched affirmative-outcome probability, or nil when no
// live value was obtained.
func normalizeCandidate(cand candidate, livePrice *float64, keywords KeywordTable) models.Market {
	m := cand.market

	names, prices := parseOutcomes(m.Outcomes, m.OutcomePrices)

	tokens := m.TokenIDs()
	yesTokenID, noTokenID := "", ""
	if len(tokens) > 0 {
		yesTokenID = tokens[0]
	}
	if len(tokens) > 1 {
		noTokenID = tokens[1]
	}

	yesPrice := parsePriceAt(prices, 0)
	noPrice := parsePriceAt(prices, 1)
	priceSource := models.PriceSourceClob

	if livePrice != nil {
		yesPrice = *livePrice
		noPrice = 1 - *livePrice
	}

	question := m.Question
	if question == "" {
		question = cand.eventTitle
	}

	id := m.ConditionID
	if id == "" {
		id = m.ID
	}

	var image *string
	if m.Image != "" {
		v := m.Image
		image = &v
	}

	return models.Market{
		ID:          id,
		ConditionID: id,
		Question:    question,
		Slug:        m.SlugValue(),
		Description: m.Description,
		Image:       image,
		Asset:       keywords.DetectAsset(question),
		Category:    "crypto",
		EndDate:     m.EndDateValue(),
		Outcomes: []models.Outcome{
			{Name: nameAt(names, 0, "Up"), Price: yesPrice, TokenID: yesTokenID},
			{Name: nameAt(names, 1, "Down"), Price: noPrice, TokenID: noTokenID},
		},
		Volume:      m.VolumeValue(),
		Liquidity:   m.LiquidityValue(),
		YesPrice:    yesPrice,
		NoPrice:     noPrice,
		YesTokenID:  yesTokenID,
		NoTokenID:   noTokenID,
		HasTokenIDs: yesTokenID != "" && noTokenID != "",
		PriceSource: priceSource,
	}
}

// parseOutcomes resolves the outcome names and prices from their lenient
// upstream encodings. Absent fields get the binary defaults; a present but
// unparseable field downgrades the whole pair to the up/down defaults.
func parseOutcomes(rawNames, rawPrices interface{}) ([]string, []string) {
	names := gamma.ParseStringSlice(rawNames)
	prices := gamma.ParseStringSlice(rawPrices)

	if (rawNames != nil && names == nil) || (rawPrices != nil && prices == nil) {
		return malformedOutcomeNames, defaultOutcomePrices
	}

	if names == nil {
		names = defaultOutcomeNames
	}
	if prices == nil {
		prices = defaultOutcomePrices
	}
	return names, prices
}

// parsePriceAt reads a price from the parsed list, defaulting to 0.5 when
// the entry is missing or not a number.
func parsePriceAt(prices []string, idx int) float64 {
	if idx >= len(prices) {
		return 0.5
	}
	f, err := strconv.ParseFloat(prices[idx], 64)
	if err != nil {
		return 0.5
	}
	return f
}

func nameAt(names []string, idx int, fallback string) string {
	if idx < len(names) && names[idx] != "" {
		return names[idx]
	}
	return fallback
}
