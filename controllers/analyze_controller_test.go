package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockrating/services"
	"stockrating/templates"
	"stockrating/types"
)

type fakeMetrics struct {
	snapshots map[string]*types.MetricsSnapshot
	err       error
	calls     int
}

func (f *fakeMetrics) FetchSnapshot(_ context.Context, symbol string) (*types.MetricsSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.snapshots[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrNotFound, symbol)
	}
	return s, nil
}

type fakeEvents struct {
	published []string
}

func (f *fakeEvents) PublishAnalysis(symbol string, evaluation types.Evaluation) types.AnalysisEvent {
	f.published = append(f.published, symbol)
	return types.AnalysisEvent{Symbol: symbol, Rating: evaluation.Rating}
}

// buyScenario scores 8: Okay Stock to Buy, likely to go up.
func buyScenario() *types.MetricsSnapshot {
	return &types.MetricsSnapshot{
		Symbol:          "AAPL",
		PriceToEarnings: types.Float(15),
		DividendYield:   types.Float(0.06),
		DebtToEquity:    types.Float(0.3),
		RSI:             types.Float(25),
	}
}

func setup(t *testing.T, metrics *fakeMetrics) (*gin.Engine, *fakeEvents) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	events := &fakeEvents{}
	prevMetrics, prevEvents := services.MetricsService, services.EventService
	services.MetricsService = metrics
	services.EventService = events
	t.Cleanup(func() {
		services.MetricsService = prevMetrics
		services.EventService = prevEvents
	})

	tmpl, err := templates.Load()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", PagesController.Home)
	r.GET("/analyze", AnalyzeController.AnalyzeForm)
	r.POST("/analyze", AnalyzeController.AnalyzeSubmit)
	r.GET("/terms", PagesController.Terms)
	r.GET("/logout", PagesController.Logout)
	r.GET("/api/analyze", AnalyzeController.Analyze)
	r.POST("/api/evaluate", AnalyzeController.Evaluate)
	r.GET("/api/report", AnalyzeController.Report)
	r.GET("/api/keepServerRunning", HealthController.IsRunning)
	return r, events
}

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAnalyzeSubmit_RendersResult(t *testing.T) {
	metrics := &fakeMetrics{snapshots: map[string]*types.MetricsSnapshot{"AAPL": buyScenario()}}
	r, events := setup(t, metrics)

	w := postForm(r, url.Values{"stock_name": {" aapl "}, "intent": {"Buy"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stock Rating: Okay Stock to Buy. Based on the analysis, the stock&#39;s likely to go up.")
	assert.Equal(t, []string{"AAPL"}, events.published)
}

func TestAnalyzeSubmit_UnknownSymbol(t *testing.T) {
	r, events := setup(t, &fakeMetrics{})

	w := postForm(r, url.Values{"stock_name": {"NOPE"}, "intent": {"buy"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), failedToRetrieve)
	assert.Empty(t, events.published)
}

func TestAnalyzeSubmit_InvalidIntentSkipsProvider(t *testing.T) {
	metrics := &fakeMetrics{}
	r, _ := setup(t, metrics)

	w := postForm(r, url.Values{"stock_name": {"AAPL"}, "intent": {"hold"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), invalidIntentMsg)
	assert.Zero(t, metrics.calls)
}

func TestAnalyze_JSON(t *testing.T) {
	metrics := &fakeMetrics{snapshots: map[string]*types.MetricsSnapshot{"AAPL": buyScenario()}}
	r, _ := setup(t, metrics)

	w := get(r, "/api/analyze?symbol=AAPL&intent=buy")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message    string           `json:"message"`
		Evaluation types.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 8, body.Evaluation.Rating)
	assert.Equal(t, types.AdviceOkayBuy, body.Evaluation.Advice)
	assert.Equal(t, types.MovementUp, body.Evaluation.Movement)
	assert.Len(t, body.Evaluation.Breakdown, 12)
}

func TestAnalyze_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		want   int
	}{
		{"missing symbol", nil, "/api/analyze", http.StatusBadRequest},
		{"invalid symbol", nil, "/api/analyze?symbol=%3Cscript%3E", http.StatusBadRequest},
		{"invalid intent", nil, "/api/analyze?symbol=AAPL&intent=short", http.StatusBadRequest},
		{"not found", nil, "/api/analyze?symbol=NOPE", http.StatusNotFound},
		{"provider failure", errors.New("yahoo down"), "/api/analyze?symbol=AAPL", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setup(t, &fakeMetrics{err: tt.err})
			w := get(r, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestEvaluate_CallerSnapshot(t *testing.T) {
	metrics := &fakeMetrics{}
	r, events := setup(t, metrics)

	payload, err := json.Marshal(map[string]interface{}{
		"intent": "sell",
		"snapshot": map[string]interface{}{
			"volume":             500_000,
			"averageVolumeProxy": 1_000_000,
			"priceToEarnings":    30,
			"priceToBook":        2,
			"dividendYield":      0.005,
			"earningsGrowth":     0.01,
			"debtToEquity":       1.2,
			"rsi":                75,
			"currentPrice":       90,
			"average50Day":       95,
			"average200Day":      100,
			"interestRate":       0.04,
			"unemploymentRate":   0.06,
			"gdpGrowth":          0.01,
			"sentimentScore":     -0.5,
			"insiderAction":      "sell",
			"valueScore":         -0.2,
			"growthScore":        -0.3,
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Evaluation types.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Less(t, body.Evaluation.Rating, 0)
	assert.Equal(t, types.AdviceSell, body.Evaluation.Advice)
	assert.Equal(t, types.MovementDown, body.Evaluation.Movement)
	assert.Zero(t, metrics.calls)
	assert.Empty(t, events.published)
}

func TestEvaluate_BadRequests(t *testing.T) {
	r, _ := setup(t, &fakeMetrics{})

	for _, payload := range []string{`not json`, `{"snapshot":{}}`, `{"snapshot":{},"intent":"maybe"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
	}
}

func TestEvaluate_MissingIntentReportsInvalidIntent(t *testing.T) {
	r, _ := setup(t, &fakeMetrics{})

	for _, payload := range []string{`{"snapshot":{"rsi":25}}`, `{"snapshot":{},"intent":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.Contains(t, w.Body.String(), "invalid intent", payload)
		assert.NotContains(t, w.Body.String(), "Invalid request body", payload)
	}
}

func TestReport_ReturnsWorkbook(t *testing.T) {
	metrics := &fakeMetrics{snapshots: map[string]*types.MetricsSnapshot{"AAPL": buyScenario()}}
	r, _ := setup(t, metrics)

	w := get(r, "/api/report?symbol=AAPL&intent=buy")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "AAPL_rating.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	advice, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, string(types.AdviceOkayBuy), advice)
}

func TestReport_NotFound(t *testing.T) {
	r, _ := setup(t, &fakeMetrics{})
	assert.Equal(t, http.StatusNotFound, get(r, "/api/report?symbol=NOPE").Code)
}
