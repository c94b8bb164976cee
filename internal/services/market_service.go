/**
 * @description
 * Service layer for the market aggregation pipeline.
 * Orchestrates discovery against the Gamma listing API, concurrent price
 * enrichment against the CLOB, normalization into the canonical market
 * shape, and the synthetic demo fallback when upstreams are unreachable.
 *
 * @dependencies
 * - backend/internal/polymarket/gamma
 * - backend/internal/polymarket/clob
 * - github.com/redis/go-redis/v9
 * - golang.org/x/sync/errgroup
 *
 * @notes
 * - GetMarkets never returns an error. Upstream failure degrades to the
 *   demo set with Source set to models.SourceDemoFallback; callers branch
 *   on provenance, not on an error value.
 * - Listings are cached for 30s and prices for 5s to bound upstream load.
 *   A cold or broken cache falls through to a direct upstream call.
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polytickers/backend/internal/logger"
	"github.com/polytickers/backend/internal/models"
	"github.com/polytickers/backend/internal/polymarket/clob"
	"github.com/polytickers/backend/internal/polymarket/gamma"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMarketLimit bounds the number of candidates enriched per request
	DefaultMarketLimit = 20

	eventPageSize  = 100
	marketPageSize = 50

	listingCacheTTL = 30 * time.Second
	priceCacheTTL   = 5 * time.Second

	cacheKeyEvents  = "gamma:events:active"
	cacheKeyMarkets = "gamma:markets:active"

	enrichConcurrency = 8
	enrichTimeout     = 5 * time.Second
)

type MarketService struct {
	Gamma    *gamma.Client
	Clob     *clob.Client
	Redis    *redis.Client
	Keywords KeywordTable
}

func NewMarketService(gammaClient *gamma.Client, clobClient *clob.Client, rdb *redis.Client) *MarketService {
	return &MarketService{
		Gamma:    gammaClient,
		Clob:     clobClient,
		Redis:    rdb,
		Keywords: DefaultKeywords,
	}
}

// candidate is a raw listing selected by discovery, prior to enrichment.
// eventTitle is carried along because nested markets sometimes lack a
// question of their own.
type candidate struct {
	market     gamma.Market
	eventID    string
	eventTitle string
}

// GetMarkets runs the full pipeline and always returns a usable response.
func (s *MarketService) GetMarkets(ctx context.Context, limit int) *models.MarketsResponse {
	if limit <= 0 {
		limit = DefaultMarketLimit
	}

	candidates, err := s.discover(ctx)
	if err != nil {
		logger.Error("market discovery failed: %v", err)
		return s.demoResponse()
	}

	// Truncate before enrichment to bound the number of price calls
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	livePrices := s.enrich(ctx, candidates)

	markets := make([]models.Market, 0, len(candidates))
	for i, cand := range candidates {
		m := normalizeCandidate(cand, livePrices[i], s.Keywords)
		if m.HasTokenIDs && m.YesPrice > 0 {
			markets = append(markets, m)
		}
	}

	return &models.MarketsResponse{
		Markets:   markets,
		Count:     len(markets),
		Source:    models.SourceLive,
		Timestamp: time.Now().UnixMilli(),
	}
}

// discover selects crypto up/down candidates from the events listing, then
// falls back to the broader flat-markets listing when that yields nothing.
func (s *MarketService) discover(ctx context.Context) ([]candidate, error) {
	events, err := s.listActiveEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("events listing: %w", err)
	}

	candidates := selectEventCandidates(events, s.Keywords)
	if len(candidates) > 0 {
		return candidates, nil
	}

	markets, err := s.listActiveMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("markets listing: %w", err)
	}

	return selectFlatCandidates(markets, s.Keywords), nil
}

// selectEventCandidates applies the event-level heuristics: an event is
// admitted when it is an up/down crypto event (or its slug says "updown"
// outright), and each of its nested markets is admitted when still open and
// carrying a full token pair.
func selectEventCandidates(events []gamma.Event, keywords KeywordTable) []candidate {
	var out []candidate
	for _, ev := range events {
		isUpDown := keywords.IsUpDown(ev.Title, ev.Slug, ev.Tags)
		isCrypto := keywords.IsCrypto(ev.Title)
		slugUpDown := strings.Contains(strings.ToLower(ev.Slug), "updown")

		if !(isUpDown && isCrypto) && !slugUpDown {
			continue
		}

		for _, m := range ev.Markets {
			if !m.Active || m.Closed {
				continue
			}
			if len(m.TokenIDs()) < 2 {
				continue
			}
			out = append(out, candidate{
				market:     m,
				eventID:    ev.ID,
				eventTitle: ev.Title,
			})
		}
	}
	return out
}

// selectFlatCandidates applies the simpler question-only filter used on the
// flat /markets listing.
func selectFlatCandidates(markets []gamma.Market, keywords KeywordTable) []candidate {
	var out []candidate
	for _, m := range markets {
		if !keywords.MatchesFlatFilter(m.Question) {
			continue
		}
		if len(m.TokenIDs()) < 2 {
			continue
		}
		out = append(out, candidate{market: m})
	}
	return out
}

// listActiveEvents returns the cached events listing, refreshing from Gamma
// when the cache window has lapsed.
func (s *MarketService) listActiveEvents(ctx context.Context) ([]gamma.Event, error) {
	if data, err := s.Redis.Get(ctx, cacheKeyEvents).Bytes(); err == nil {
		var events []gamma.Event
		if err := json.Unmarshal(data, &events); err == nil {
			return events, nil
		}
		// Corrupt cache entry: fall through to upstream
	}

	active, closed := true, false
	events, err := s.Gamma.GetEvents(ctx, gamma.ListParams{
		Limit:  eventPageSize,
		Active: &active,
		Closed: &closed,
	})
	if err != nil {
		return nil, err
	}

	s.cacheListing(ctx, cacheKeyEvents, events)
	return events, nil
}

func (s *MarketService) listActiveMarkets(ctx context.Context) ([]gamma.Market, error) {
	if data, err := s.Redis.Get(ctx, cacheKeyMarkets).Bytes(); err == nil {
		var markets []gamma.Market
		if err := json.Unmarshal(data, &markets); err == nil {
			return markets, nil
		}
	}

	active, closed := true, false
	markets, err := s.Gamma.GetMarkets(ctx, gamma.ListParams{
		Limit:  marketPageSize,
		Active: &active,
		Closed: &closed,
	})
	if err != nil {
		return nil, err
	}

	s.cacheListing(ctx, cacheKeyMarkets, markets)
	return markets, nil
}

func (s *MarketService) cacheListing(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, listingCacheTTL).Err(); err != nil {
		logger.Error("failed to cache %s: %v", key, err)
	}
}

// enrich fans out live-price lookups for each candidate's affirmative token.
// Results are index-aligned with the input so output ordering follows
// discovery order regardless of completion order. A nil entry means no live
// price was obtained and upstream prices stand.
func (s *MarketService) enrich(ctx context.Context, candidates []candidate) []*float64 {
	prices := make([]*float64, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(enrichConcurrency)

	for i, cand := range candidates {
		tokens := cand.market.TokenIDs()
		if len(tokens) == 0 || tokens[0] == "" {
			continue
		}
		i, yesToken := i, tokens[0]
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
			defer cancel()
			prices[i] = s.fetchLivePrice(callCtx, yesToken)
			return nil
		})
	}

	_ = g.Wait()
	return prices
}

// priceFetch is one strategy in the enrichment fallback chain
type priceFetch func(ctx context.Context, tokenID string) (float64, error)

// fetchLivePrice tries the midpoint first, then the last-trade buy price,
// and returns the first value obtained. It returns nil when every source
// fails (timeouts included) so upstream listing prices stand.
func (s *MarketService) fetchLivePrice(ctx context.Context, tokenID string) *float64 {
	for _, fetch := range []priceFetch{s.cachedMidpoint, s.cachedBuyPrice} {
		price, err := fetch(ctx, tokenID)
		if err != nil {
			continue
		}
		return &price
	}
	return nil
}

func (s *MarketService) cachedMidpoint(ctx context.Context, tokenID string) (float64, error) {
	key := "clob:mid:" + tokenID
	if cached, ok := s.cachedPrice(ctx, key); ok {
		return cached, nil
	}

	price, err := s.Clob.GetMidpoint(ctx, tokenID)
	if err != nil {
		return 0, err
	}

	s.cachePrice(ctx, key, price)
	return price, nil
}

func (s *MarketService) cachedBuyPrice(ctx context.Context, tokenID string) (float64, error) {
	key := "clob:price:buy:" + tokenID
	if cached, ok := s.cachedPrice(ctx, key); ok {
		return cached, nil
	}

	price, err := s.Clob.GetPrice(ctx, tokenID, clob.SideBuy)
	if err != nil {
		return 0, err
	}

	s.cachePrice(ctx, key, price)
	return price, nil
}

func (s *MarketService) cachedPrice(ctx context.Context, key string) (float64, bool) {
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func (s *MarketService) cachePrice(ctx context.Context, key string, price float64) {
	if err := s.Redis.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), priceCacheTTL).Err(); err != nil {
		logger.Error("failed to cache %s: %v", key, err)
	}
}
