/**
 * @description
 * Text-classification heuristics for market discovery.
 * Decides whether a listing is a crypto up/down price market and which asset
 * symbol a market question refers to.
 *
 * @notes
 * - All classification is driven by KeywordTable, a fixed vocabulary passed
 *   in by the caller. The functions are pure: same text in, same answer out,
 *   no process-wide state.
 * - Asset rules are priority-ordered; the first matching symbol wins, so a
 *   question mentioning both BTC and ETH classifies as BTC.
 */

package services

import (
	"strings"

	"github.com/polytickers/backend/internal/models"
	"github.com/polytickers/backend/internal/polymarket/gamma"
)

// AssetKeywords binds an asset symbol to the question-text terms that imply it
type AssetKeywords struct {
	Symbol string
	Terms  []string
}

// KeywordTable groups the fixed vocabularies used by discovery and
// normalization. DefaultKeywords is the production table; tests may supply
// their own.
type KeywordTable struct {
	// UpDown marks a title as an up/down style price market
	UpDown []string
	// Crypto marks an event title as referring to a crypto asset
	Crypto []string
	// FlatCrypto is the narrower asset filter applied in the flat-markets
	// fallback pass
	FlatCrypto []string
	// Assets maps question text to a traded symbol, in priority order
	Assets []AssetKeywords
}

// DefaultKeywords is the production classification vocabulary
var DefaultKeywords = KeywordTable{
	UpDown: []string{"up", "down", "higher", "lower"},
	Crypto: []string{
		"btc", "bitcoin", "eth", "ethereum", "sol", "solana",
		"bnb", "xrp", "doge", "ada", "avax", "link", "matic", "polygon",
	},
	FlatCrypto: []string{"btc", "eth", "sol", "price"},
	Assets: []AssetKeywords{
		{Symbol: models.AssetBTC, Terms: []string{"btc", "bitcoin"}},
		{Symbol: models.AssetETH, Terms: []string{"eth", "ethereum"}},
		{Symbol: models.AssetSOL, Terms: []string{"sol", "solana"}},
		{Symbol: models.AssetBNB, Terms: []string{"bnb"}},
		{Symbol: models.AssetXRP, Terms: []string{"xrp"}},
		{Symbol: models.AssetDOGE, Terms: []string{"doge"}},
		{Symbol: models.AssetAVAX, Terms: []string{"avax"}},
		{Symbol: models.AssetLINK, Terms: []string{"link"}},
	},
}

// IsUpDown reports whether an event title/slug/tag combination looks like an
// up/down price market. Tags slugged or labeled "crypto" count, mirroring how
// Polymarket tags its hourly price events.
func (t KeywordTable) IsUpDown(title, slug string, tags []gamma.Tag) bool {
	if containsAny(title, t.UpDown) {
		return true
	}
	if strings.Contains(strings.ToLower(slug), "updown") {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(tag.Slug, "crypto") {
			return true
		}
		if strings.Contains(strings.ToLower(tag.Label), "crypto") {
			return true
		}
	}
	return false
}

// IsCrypto reports whether a title mentions a known crypto asset
func (t KeywordTable) IsCrypto(title string) bool {
	return containsAny(title, t.Crypto)
}

// MatchesFlatFilter applies the simpler question-only filter used by the
// flat-markets fallback pass: an up/down term plus a crypto/price term.
func (t KeywordTable) MatchesFlatFilter(question string) bool {
	return containsAny(question, t.UpDown) && containsAny(question, t.FlatCrypto)
}

// DetectAsset derives a traded symbol from free question text.
// Returns models.AssetUnknown when no rule matches.
func (t KeywordTable) DetectAsset(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range t.Assets {
		for _, term := range rule.Terms {
			if strings.Contains(lower, term) {
				return rule.Symbol
			}
		}
	}
	return models.AssetUnknown
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
