package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nolan-veed/divcast/internal/api/handlers"
	"github.com/nolan-veed/divcast/internal/contracts"
	"github.com/nolan-veed/divcast/internal/research"
	"github.com/nolan-veed/divcast/pkg/config"
	"github.com/nolan-veed/divcast/pkg/logger"
)

type stubFeed struct {
	data map[string]*contracts.TickerData
}

func (f *stubFeed) FetchTicker(ctx context.Context, symbol string) (*contracts.TickerData, error) {
	if data, ok := f.data[symbol]; ok {
		return data, nil
	}
	return nil, context.DeadlineExceeded
}

type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (nopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (nopCache) Delete(ctx context.Context, key string) error { return nil }
func (nopCache) Enable()                                      {}
func (nopCache) Disable()                                     {}
func (nopCache) Enabled() bool                                { return false }

func testRouter() http.Handler {
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)

	feed := &stubFeed{data: map[string]*contracts.TickerData{
		"KO": {
			Symbol: "KO",
			Info:   contracts.QuoteInfo{Price: 62.5, DividendRate: 1.94},
			Events: []contracts.ExDividendEvent{
				{Date: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), Amount: 0.485},
				{Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Amount: 0.485},
				{Date: time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC), Amount: 0.485},
			},
		},
	}}

	svc := research.NewService(feed, nopCache{}, nil, log, time.Hour)
	return NewRouter(handlers.NewDividendsHandler(svc, log), log)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestGetEstimate(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dividends/KO/estimate?as_of=2024-09-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var est research.Estimate
	if err := json.Unmarshal(rec.Body.Bytes(), &est); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if est.Symbol != "KO" {
		t.Errorf("symbol = %q, want KO", est.Symbol)
	}
	if est.EstimationMethod == "" {
		t.Error("estimation_method is empty")
	}
	if est.EstimatedLastPaymentDate == nil {
		t.Error("estimated_last_payment_date is nil")
	}
	if est.DividendRate != 1.94 {
		t.Errorf("dividend_rate = %v, want 1.94", est.DividendRate)
	}

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGetEstimate_BadAsOf(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dividends/KO/estimate?as_of=not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetEstimate_FeedFailure(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dividends/MISSING/estimate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestGetSchedule(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dividends/KO/schedule?as_of=2024-09-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Symbol   string   `json:"symbol"`
		Schedule []string `json:"schedule"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Symbol != "KO" {
		t.Errorf("symbol = %q, want KO", body.Symbol)
	}
	if len(body.Schedule) == 0 {
		t.Error("schedule is empty")
	}
	for _, d := range body.Schedule {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			t.Errorf("schedule date %q is not YYYY-MM-DD", d)
		}
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dividends/KO/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPostBatch(t *testing.T) {
	router := testRouter()

	payload, _ := json.Marshal(map[string]interface{}{
		"symbols": []string{"KO", "MISSING"},
		"as_of":   "2024-09-01",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/dividends/batch", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Count   int                  `json:"count"`
		Results []research.BatchItem `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	if body.Results[0].Estimate == nil || body.Results[0].Error != "" {
		t.Errorf("expected KO to succeed: %+v", body.Results[0])
	}
	if body.Results[1].Estimate != nil || body.Results[1].Error == "" {
		t.Errorf("expected MISSING to fail: %+v", body.Results[1])
	}
}

func TestPostBatch_Validation(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty symbols", `{"symbols": []}`},
		{"invalid json", `{`},
		{"bad as_of", `{"symbols": ["KO"], "as_of": "09/01/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dividends/batch", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
