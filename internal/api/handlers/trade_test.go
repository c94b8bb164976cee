package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/polytickers/backend/internal/config"
	"github.com/polytickers/backend/internal/integrations/dome"
)

func newTradeApp(t *testing.T, apiKey string, domeHandler http.HandlerFunc) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(domeHandler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Dome: config.DomeConfig{BaseURL: srv.URL, APIKey: apiKey},
	}

	handler := NewTradeHandler(dome.NewClient(cfg))
	app := fiber.New()
	app.Post("/api/v1/trade", handler.PostTrade)
	app.Get("/api/v1/trade", handler.GetOrders)
	return app
}

func postTrade(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestPostTradeOrderRelay(t *testing.T) {
	app := newTradeApp(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/polymarket/router/order" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		// The router speaks snake_case
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["user_id"] != "u1" || body["token_id"] != "T1" {
			t.Errorf("unexpected relay body: %v", body)
		}

		fmt.Fprint(w, `{"order_id": "ord-1", "status": "live"}`)
	})

	resp := postTrade(t, app, `{"action": "order", "userId": "u1", "tokenId": "T1", "side": "buy", "size": 10, "price": 0.55}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	_ = json.Unmarshal(body, &payload)

	if payload["orderId"] != "ord-1" || payload["success"] != true {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestPostTradeLink(t *testing.T) {
	app := newTradeApp(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/polymarket/router/link" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"payload": {"domain": {"name": "Router"}}}`)
	})

	resp := postTrade(t, app, `{"action": "link", "userId": "u1", "walletAddress": "0xabc"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	_ = json.Unmarshal(body, &payload)
	if payload["payload"] == nil {
		t.Fatal("expected EIP-712 payload passthrough")
	}
}

func TestPostTradeValidation(t *testing.T) {
	app := newTradeApp(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	cases := []string{
		`{"action": "unknown"}`,
		`{"action": "link", "userId": "u1"}`,
		`{"action": "order", "userId": "u1", "tokenId": "T1", "side": "buy"}`,
		`{"action": "cancel", "userId": "u1"}`,
	}
	for _, body := range cases {
		resp := postTrade(t, app, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: unexpected status %d", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestPostTradeWithoutAPIKey(t *testing.T) {
	app := newTradeApp(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	resp := postTrade(t, app, `{"action": "order", "userId": "u1", "tokenId": "T1", "side": "buy", "size": 1, "price": 0.5}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestGetOrdersBestEffort(t *testing.T) {
	app := newTradeApp(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trade?wallet=0xabc", nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// Upstream failure still yields a 200 with empty lists
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Orders    []json.RawMessage `json:"orders"`
		Positions []json.RawMessage `json:"positions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Orders) != 0 {
		t.Fatalf("expected empty orders, got %v", payload.Orders)
	}
}

func TestGetOrdersRequiresWallet(t *testing.T) {
	app := newTradeApp(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trade", nil)
	resp, _ := app.Test(req, 5000)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
