package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/polytickers/backend/internal/config"
	"github.com/polytickers/backend/internal/models"
	"github.com/polytickers/backend/internal/polymarket/clob"
	"github.com/polytickers/backend/internal/polymarket/gamma"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	eventsFixture = `[
		{
			"id": "ev1",
			"title": "Will BTC be up or down in 1 hour?",
			"slug": "btc-updown-1h",
			"active": true,
			"closed": false,
			"tags": [{"slug": "crypto-prices", "label": "Crypto Prices"}],
			"markets": [
				{
					"id": "m1",
					"conditionId": "0xabc",
					"slug": "btc-updown-1h",
					"question": "Will BTC be up or down in 1 hour?",
					"active": true,
					"closed": false,
					"clobTokenIds": "[\"T1\", \"T2\"]",
					"outcomes": "[\"Up\", \"Down\"]",
					"outcomePrices": "[\"0.6\", \"0.4\"]",
					"volumeNum": 125000,
					"liquidityNum": 4000,
					"endDateIso": "2026-08-30T16:00:00Z"
				}
			]
		}
	]`

	flatMarketsFixture = `[
		{
			"id": "m9",
			"conditionId": "0xdef",
			"question": "Will ETH price be higher at 4pm?",
			"active": true,
			"closed": false,
			"clobTokenIds": "[\"F1\", \"F2\"]",
			"outcomes": "[\"Yes\", \"No\"]",
			"outcomePrices": "[\"0.55\", \"0.45\"]",
			"volumeNum": 1000
		}
	]`
)

type upstreams struct {
	events      atomic.Int64
	flatMarkets atomic.Int64
	midpoints   atomic.Int64

	eventsBody  string
	marketsBody string
	midpointFor map[string]string // token -> mid
	priceFor    map[string]string // token -> buy price
	gammaDown   bool
}

func newTestService(t *testing.T, up *upstreams) (*MarketService, *miniredis.Miniredis) {
	t.Helper()

	gammaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if up.gammaDown {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		switch r.URL.Path {
		case "/events":
			up.events.Add(1)
			fmt.Fprint(w, up.eventsBody)
		case "/markets":
			up.flatMarkets.Add(1)
			fmt.Fprint(w, up.marketsBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(gammaSrv.Close)

	clobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token_id")
		switch r.URL.Path {
		case "/midpoint":
			up.midpoints.Add(1)
			if mid, ok := up.midpointFor[token]; ok {
				fmt.Fprintf(w, `{"mid": %q}`, mid)
				return
			}
			http.Error(w, "no book", http.StatusNotFound)
		case "/price":
			if price, ok := up.priceFor[token]; ok {
				fmt.Fprintf(w, `{"price": %q}`, price)
				return
			}
			http.Error(w, "no trades", http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(clobSrv.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Polymarket: config.PolymarketConfig{
			GammaURL: gammaSrv.URL,
			ClobURL:  clobSrv.URL,
		},
	}

	return NewMarketService(gamma.NewClient(cfg), clob.NewClient(cfg), rdb), mr
}

func TestGetMarketsLiveEnrichment(t *testing.T) {
	up := &upstreams{
		eventsBody:  eventsFixture,
		marketsBody: `[]`,
		midpointFor: map[string]string{"T1": "0.7"},
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)

	assert.Equal(t, models.SourceLive, resp.Source)
	assert.Empty(t, resp.Error)
	require.Equal(t, 1, resp.Count)

	m := resp.Markets[0]
	assert.Equal(t, "0xabc", m.ConditionID)
	assert.Equal(t, models.AssetBTC, m.Asset)
	assert.Equal(t, 0.7, m.YesPrice)
	assert.InDelta(t, 0.3, m.NoPrice, 1e-9)
	assert.Equal(t, 0.7, m.Outcomes[0].Price)
	assert.InDelta(t, 0.3, m.Outcomes[1].Price, 1e-9)
	assert.True(t, m.HasTokenIDs)

	// The flat listing must not be consulted when the event pass produced candidates
	assert.EqualValues(t, 0, up.flatMarkets.Load())
}

func TestGetMarketsMidpointFallsBackToLastTrade(t *testing.T) {
	up := &upstreams{
		eventsBody: eventsFixture,
		priceFor:   map[string]string{"T1": "0.62"},
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 0.62, resp.Markets[0].YesPrice)
	assert.InDelta(t, 0.38, resp.Markets[0].NoPrice, 1e-9)
}

func TestGetMarketsRetainsUpstreamPricesWhenEnrichmentFails(t *testing.T) {
	up := &upstreams{
		eventsBody: eventsFixture, // no midpoint, no last-trade configured
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 0.6, resp.Markets[0].YesPrice)
	assert.Equal(t, 0.4, resp.Markets[0].NoPrice)
	assert.Equal(t, models.SourceLive, resp.Source)
}

func TestGetMarketsFlatFallbackActivates(t *testing.T) {
	up := &upstreams{
		eventsBody:  `[]`,
		marketsBody: flatMarketsFixture,
		midpointFor: map[string]string{"F1": "0.5"},
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)

	assert.EqualValues(t, 1, up.flatMarkets.Load(), "flat markets query must be issued")
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "0xdef", resp.Markets[0].ConditionID)
	assert.Equal(t, models.AssetETH, resp.Markets[0].Asset)
	assert.Equal(t, models.SourceLive, resp.Source)
}

func TestGetMarketsEmptyResultIsNotDemoFallback(t *testing.T) {
	up := &upstreams{
		eventsBody:  `[]`,
		marketsBody: `[]`,
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)
	assert.Equal(t, models.SourceLive, resp.Source)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Error)
}

func TestGetMarketsDemoFallbackOnUpstreamFailure(t *testing.T) {
	up := &upstreams{gammaDown: true}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)

	assert.Equal(t, models.SourceDemoFallback, resp.Source)
	assert.NotEmpty(t, resp.Error)
	require.Equal(t, 3, resp.Count)
	for _, m := range resp.Markets {
		assert.Equal(t, models.PriceSourceDemo, m.PriceSource)
		assert.True(t, m.HasTokenIDs)
		assert.Greater(t, m.YesPrice, 0.0)
	}
}

func TestGetMarketsExcludesSingleTokenMarkets(t *testing.T) {
	var events []gamma.Event
	require.NoError(t, json.Unmarshal([]byte(eventsFixture), &events))
	events[0].Markets[0].ClobTokenIDs = `["T1"]`
	body, err := json.Marshal(events)
	require.NoError(t, err)

	up := &upstreams{
		eventsBody:  string(body),
		marketsBody: `[]`,
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)
	assert.Equal(t, 0, resp.Count)
	// The candidate never reaches enrichment
	assert.EqualValues(t, 0, up.midpoints.Load())
}

func TestGetMarketsOutputInvariants(t *testing.T) {
	up := &upstreams{
		eventsBody:  eventsFixture,
		midpointFor: map[string]string{"T1": "0.7"},
	}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 20)
	for _, m := range resp.Markets {
		assert.Len(t, m.Outcomes, 2)
		assert.NotEmpty(t, m.YesTokenID)
		assert.NotEmpty(t, m.NoTokenID)
		assert.Greater(t, m.YesPrice, 0.0)
		assert.InDelta(t, 1.0, m.YesPrice+m.NoPrice, 1e-9)
	}
}

func TestGetMarketsUsesListingCache(t *testing.T) {
	up := &upstreams{
		eventsBody:  eventsFixture,
		midpointFor: map[string]string{"T1": "0.7"},
	}
	svc, _ := newTestService(t, up)

	svc.GetMarkets(context.Background(), 20)
	svc.GetMarkets(context.Background(), 20)

	assert.EqualValues(t, 1, up.events.Load(), "second request within the cache window must not hit gamma")
}

func TestGetMarketsPriceCacheExpires(t *testing.T) {
	up := &upstreams{
		eventsBody:  eventsFixture,
		midpointFor: map[string]string{"T1": "0.7"},
	}
	svc, mr := newTestService(t, up)

	svc.GetMarkets(context.Background(), 20)
	assert.EqualValues(t, 1, up.midpoints.Load())

	svc.GetMarkets(context.Background(), 20)
	assert.EqualValues(t, 1, up.midpoints.Load(), "price served from cache")

	mr.FastForward(priceCacheTTL * 2)
	svc.GetMarkets(context.Background(), 20)
	assert.EqualValues(t, 2, up.midpoints.Load(), "expired cache refetches from clob")
}

func TestGetMarketsLimitBoundsEnrichment(t *testing.T) {
	var events []gamma.Event
	require.NoError(t, json.Unmarshal([]byte(eventsFixture), &events))
	base := events[0].Markets[0]
	events[0].Markets = nil
	for i := 0; i < 5; i++ {
		m := base
		m.ID = fmt.Sprintf("m%d", i)
		m.ConditionID = fmt.Sprintf("0xabc%d", i)
		m.ClobTokenIDs = fmt.Sprintf(`["Y%d", "N%d"]`, i, i)
		events[0].Markets = append(events[0].Markets, m)
	}
	body, err := json.Marshal(events)
	require.NoError(t, err)

	up := &upstreams{eventsBody: string(body)}
	svc, _ := newTestService(t, up)

	resp := svc.GetMarkets(context.Background(), 2)
	assert.Equal(t, 2, resp.Count)
	// One midpoint attempt per truncated candidate
	assert.EqualValues(t, 2, up.midpoints.Load())
}
