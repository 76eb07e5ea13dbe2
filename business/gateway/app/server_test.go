package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	arbitrageApp "github.com/fd1az/defi-agents/business/arbitrage/app"
	arbitrageDomain "github.com/fd1az/defi-agents/business/arbitrage/domain"
	executionDomain "github.com/fd1az/defi-agents/business/execution/domain"
	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/logger"
)

type idleScanner struct{}

func (idleScanner) ScanPairs(ctx context.Context, pairs []pricingDomain.Pair, onProgress func(done, total int)) []*pricingDomain.PriceObservation {
	return nil
}

type idleExecutor struct{}

func (idleExecutor) Execute(ctx context.Context, params *arbitrageDomain.TradeParams, expectedProfit decimal.Decimal) *executionDomain.ExecutionResult {
	return executionDomain.Failure("not implemented", "", true)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	controller := arbitrageApp.NewController(arbitrageApp.ControllerConfig{
		Settings: arbitrageApp.Settings{
			ScanInterval:   time.Hour,
			TradeAmountUSD: decimal.NewFromInt(1000),
			MinProfitUSD:   decimal.NewFromInt(10),
			MaxSlippage:    decimal.RequireFromString("0.005"),
		},
		GasUnits:            75000,
		GasPrice:            decimal.NewFromInt(1),
		NativeTokenPriceUSD: decimal.NewFromInt(3400),
		Thresholds:          arbitrageDomain.DefaultRiskThresholds(),
	}, idleScanner{}, idleExecutor{}, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go controller.Run(ctx)

	server := NewServer(ServerConfig{Port: 0, Version: "test"}, controller, nil, log)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["status"] != "ok" {
			t.Errorf("status = %v, want ok", body["status"])
		}
		if body["version"] != "test" {
			t.Errorf("version = %v, want test", body["version"])
		}
	}
}

func TestStartStopLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/system/start", "application/json", nil)
	if err != nil {
		t.Fatalf("POST start: %v", err)
	}
	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("first start = %v, want success", body)
	}

	resp, err = http.Post(ts.URL+"/api/system/start", "application/json", nil)
	if err != nil {
		t.Fatalf("POST start: %v", err)
	}
	body = decodeBody(t, resp)
	if body["success"] != false || body["message"] != "System already running" {
		t.Errorf("second start = %v, want already-running message", body)
	}

	resp, err = http.Post(ts.URL+"/api/system/stop", "application/json", nil)
	if err != nil {
		t.Fatalf("POST stop: %v", err)
	}
	if body = decodeBody(t, resp); body["success"] != true {
		t.Errorf("stop = %v, want success", body)
	}

	resp, err = http.Post(ts.URL+"/api/system/stop", "application/json", nil)
	if err != nil {
		t.Fatalf("POST stop: %v", err)
	}
	body = decodeBody(t, resp)
	if body["success"] != false || body["message"] != "System not running" {
		t.Errorf("second stop = %v, want not-running message", body)
	}
}

func TestStartWithSettings(t *testing.T) {
	ts := newTestServer(t)

	payload := bytes.NewBufferString(`{"scanInterval": 60, "minProfitUSD": 25}`)
	resp, err := http.Post(ts.URL+"/api/system/start", "application/json", payload)
	if err != nil {
		t.Fatalf("POST start: %v", err)
	}
	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("start = %v, want success", body)
	}
	settings, ok := body["settings"].(map[string]any)
	if !ok {
		t.Fatalf("settings missing from response: %v", body)
	}
	if settings["scanInterval"] != float64(60) {
		t.Errorf("scanInterval = %v, want 60", settings["scanInterval"])
	}
	if settings["minProfitUSD"] != float64(25) {
		t.Errorf("minProfitUSD = %v, want 25", settings["minProfitUSD"])
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"interval_too_short", `{"scanInterval": 2}`},
		{"negative_profit", `{"minProfitUSD": -5}`},
		{"slippage_too_high", `{"maxSlippage": 50}`},
		{"malformed_json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/system/settings", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST settings: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["success"] != false {
				t.Errorf("body = %v, want success false", body)
			}
		})
	}
}

func TestSystemStatus(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/system/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	body := decodeBody(t, resp)
	if body["running"] != false {
		t.Errorf("running = %v, want false before start", body["running"])
	}
	if _, ok := body["stats"]; !ok {
		t.Error("status payload missing stats")
	}
	if _, ok := body["settings"]; !ok {
		t.Error("status payload missing settings")
	}
}

func TestOpportunitiesEmptyList(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/opportunities")
	if err != nil {
		t.Fatalf("GET opportunities: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	// Empty list must encode as [], not null.
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("body = %q, want []", raw)
	}
}

func TestApproveUnknownOpportunity(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/opportunity/nope/approve", "application/json", nil)
	if err != nil {
		t.Fatalf("POST approve: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["success"] != false {
		t.Errorf("body = %v, want success false", body)
	}
}

func TestRejectUnknownOpportunity(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/opportunity/nope/reject", "application/json", nil)
	if err != nil {
		t.Fatalf("POST reject: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
