package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/pkg/config"
	"github.com/EyalShechtman/AWSHackDay/pkg/httputil"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.FinnhubConfig{
		APIKey:        "test-token",
		BaseURL:       srv.URL,
		RatePerSecond: 100,
	}
	return NewClient(cfg, httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop())
}

func TestEnabled(t *testing.T) {
	c := NewClient(config.FinnhubConfig{}, httputil.New(logger.NewNop()), logger.NewNop())
	assert.False(t, c.Enabled())

	c = NewClient(config.FinnhubConfig{APIKey: "k"}, httputil.New(logger.NewNop()), logger.NewNop())
	assert.True(t, c.Enabled())
}

func TestFetchSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "SOFI", r.URL.Query().Get("symbol"))

		switch r.URL.Path {
		case "/quote":
			w.Write([]byte(`{"c":8.52,"d":0.31,"dp":3.78,"h":8.6,"l":8.2,"pc":8.21}`))
		case "/stock/profile2":
			w.Write([]byte(`{"name":"SoFi Technologies","finnhubIndustry":"Financial Services","marketCapitalization":8900}`))
		case "/company-news":
			w.Write([]byte(`[{"headline":"SoFi beats estimates","datetime":1756500000,"source":"Reuters"},{"headline":"Upgrade","datetime":1756400000,"source":"Barrons"},{"headline":"Third","datetime":1756300000,"source":"CNBC"},{"headline":"Fourth is dropped","datetime":1756200000,"source":"WSJ"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	snap := c.FetchSnapshot(context.Background(), "SOFI")

	require.NotNil(t, snap.Quote)
	assert.InDelta(t, 8.52, snap.Quote.Current, 1e-9)
	assert.InDelta(t, 3.78, snap.Quote.PercentChange, 1e-9)

	require.NotNil(t, snap.Profile)
	assert.Equal(t, "SoFi Technologies", snap.Profile.Name)

	// news is capped at three headlines
	require.Len(t, snap.News, 3)
	assert.Equal(t, "SoFi beats estimates", snap.News[0].Headline)
}

func TestFetchSnapshotPartialFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			w.Write([]byte(`{"c":8.52,"pc":8.21}`))
		default:
			// profile and news endpoints are down
			http.Error(w, "upstream error", http.StatusBadGateway)
		}
	})

	snap := c.FetchSnapshot(context.Background(), "SOFI")

	require.NotNil(t, snap.Quote)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.News)
}

func TestMarketContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")

		switch {
		case r.URL.Path == "/quote" && symbol == "SOFI":
			w.Write([]byte(`{"c":8.52,"dp":3.78,"pc":8.21}`))
		case r.URL.Path == "/stock/profile2" && symbol == "SOFI":
			w.Write([]byte(`{"name":"SoFi Technologies","finnhubIndustry":"Financial Services","marketCapitalization":8900}`))
		case r.URL.Path == "/company-news" && symbol == "SOFI":
			w.Write([]byte(`[{"headline":"SoFi beats estimates","source":"Reuters"}]`))
		default:
			// GHOST has no data anywhere
			w.Write([]byte(`{}`))
		}
	})

	text := c.MarketContext(context.Background(), []string{"SOFI", "GHOST"})

	assert.Contains(t, text, "SOFI (SoFi Technologies, Financial Services, market cap $8900M)")
	assert.Contains(t, text, "price 8.52 (+3.78%), prev close 8.21")
	assert.Contains(t, text, "news: SoFi beats estimates (Reuters)")
	assert.NotContains(t, text, "GHOST")
}

func TestMarketContextDisabled(t *testing.T) {
	c := NewClient(config.FinnhubConfig{}, httputil.New(logger.NewNop()), logger.NewNop())
	assert.Empty(t, c.MarketContext(context.Background(), []string{"SOFI"}))
}
