package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/internal/pipeline"
	"github.com/EyalShechtman/AWSHackDay/internal/session"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// blockingTrend parks S1 until released, keeping a cycle observably
// in flight.
type blockingTrend struct {
	release chan struct{}
}

func (b *blockingTrend) TrendingStocks(ctx context.Context) ([]contracts.TickerMention, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []contracts.TickerMention{{Ticker: "PLTR"}}, nil
}

type staticSummary struct{}

func (staticSummary) FinancialSummary(ctx context.Context, tickers []string) (*contracts.SummaryResult, error) {
	return &contracts.SummaryResult{Summary: "summary"}, nil
}

type staticSelector struct{}

func (staticSelector) InvestmentCandidates(ctx context.Context, summary string) (string, error) {
	return "PLTR", nil
}

type staticAdvisor struct{}

func (staticAdvisor) FinalTrades(ctx context.Context, candidates, strategy string) (string, error) {
	return `{"trades":[` + strings.Repeat(`{"ticker":"PLTR","strategy":"s","legs":"l","thesis":"t","pop":0.7},`, 4) +
		`{"ticker":"PLTR","strategy":"s","legs":"l","thesis":"t","pop":0.7}]}`, nil
}

func newTestHandler(trend contracts.TrendDetector) (*SessionHandler, *session.Store) {
	store := session.New("default strategy")
	orch := pipeline.NewOrchestrator(trend, staticSummary{}, staticSelector{}, staticAdvisor{}, store, logger.NewNop())
	return NewSessionHandler(store, orch, logger.NewNop()), store
}

func TestGetSession(t *testing.T) {
	h, _ := newTestHandler(&blockingTrend{release: make(chan struct{})})

	rec := httptest.NewRecorder()
	h.GetSession(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, contracts.StatusIdle, snap.Status)
	assert.Equal(t, "default strategy", snap.Strategy)
	assert.Len(t, snap.PortfolioHistory, 7)
}

func TestPutStrategy(t *testing.T) {
	h, store := newTestHandler(&blockingTrend{release: make(chan struct{})})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/strategy", strings.NewReader(`{"strategy":"small caps only"}`))
	h.PutStrategy(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "small caps only", store.Strategy())
}

func TestPutStrategyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty strategy", `{"strategy":""}`},
		{"missing field", `{}`},
		{"not json", `strategy=foo`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestHandler(&blockingTrend{release: make(chan struct{})})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/strategy", strings.NewReader(tt.body))
			h.PutStrategy(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "default strategy", store.Strategy())
		})
	}
}

func TestStartCycleAndConflicts(t *testing.T) {
	trend := &blockingTrend{release: make(chan struct{})}
	h, store := newTestHandler(trend)

	rec := httptest.NewRecorder()
	h.StartCycle(rec, httptest.NewRequest(http.MethodPost, "/api/cycle", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return store.Snapshot().Status == contracts.StatusRunning
	}, time.Second, 5*time.Millisecond)

	// second trigger while running
	rec = httptest.NewRecorder()
	h.StartCycle(rec, httptest.NewRequest(http.MethodPost, "/api/cycle", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, contracts.ErrRunInFlight.Error(), body["error"])

	// strategy updates are frozen while running
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/strategy", strings.NewReader(`{"strategy":"mid-run"}`))
	h.PutStrategy(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(trend.release)

	require.Eventually(t, func() bool {
		return store.Snapshot().Status == contracts.StatusCompleted
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, store.Snapshot().Trades, 5)
}
