// Package finnhub fetches live market data used to enrich the
// financial summary stage. All fetches are best-effort; a failed
// sub-request leaves its field absent instead of failing the stage.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/EyalShechtman/AWSHackDay/pkg/config"
	"github.com/EyalShechtman/AWSHackDay/pkg/httputil"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// Client handles communication with the Finnhub API
// SSOT: Finnhub calls happen only through this client
type Client struct {
	httpClient *httputil.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates a new Finnhub client. The free tier is tightly rate
// limited, so all requests share one limiter.
func NewClient(cfg config.FinnhubConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		logger:     log.WithField("module", "finnhub"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Quote is a real-time price quote
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	PrevClose     float64 `json:"pc"`
}

// Profile is a company profile
type Profile struct {
	Name      string  `json:"name"`
	Industry  string  `json:"finnhubIndustry"`
	MarketCap float64 `json:"marketCapitalization"` // millions USD
}

// NewsItem is one company news headline
type NewsItem struct {
	Headline string `json:"headline"`
	Datetime int64  `json:"datetime"`
	Source   string `json:"source"`
}

// Snapshot aggregates the per-ticker sub-requests. Nil fields mean the
// sub-request failed or returned nothing.
type Snapshot struct {
	Ticker  string
	Quote   *Quote
	Profile *Profile
	News    []NewsItem
}

// FetchSnapshot fans out the quote, profile, and news sub-requests for
// one ticker concurrently. Individual failures never abort siblings.
func (c *Client) FetchSnapshot(ctx context.Context, ticker string) *Snapshot {
	snap := &Snapshot{Ticker: ticker}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		var q Quote
		if err := c.getJSON(ctx, "/quote", url.Values{"symbol": {ticker}}, &q); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("quote fetch failed")
			return
		}
		// unknown symbols come back as an all-zero quote
		if q.Current != 0 {
			snap.Quote = &q
		}
	}()

	go func() {
		defer wg.Done()
		var p Profile
		if err := c.getJSON(ctx, "/stock/profile2", url.Values{"symbol": {ticker}}, &p); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("profile fetch failed")
			return
		}
		if p.Name != "" {
			snap.Profile = &p
		}
	}()

	go func() {
		defer wg.Done()
		now := time.Now()
		params := url.Values{
			"symbol": {ticker},
			"from":   {now.AddDate(0, 0, -7).Format("2006-01-02")},
			"to":     {now.Format("2006-01-02")},
		}
		var news []NewsItem
		if err := c.getJSON(ctx, "/company-news", params, &news); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("news fetch failed")
			return
		}
		if len(news) > 3 {
			news = news[:3]
		}
		snap.News = news
	}()

	wg.Wait()
	return snap
}

// MarketContext fetches snapshots for all tickers and formats them as a
// text block for the summary prompt. Tickers with no data at all are
// skipped.
func (c *Client) MarketContext(ctx context.Context, tickers []string) string {
	if !c.Enabled() || len(tickers) == 0 {
		return ""
	}

	snapshots := make([]*Snapshot, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			snapshots[i] = c.FetchSnapshot(ctx, ticker)
		}(i, ticker)
	}
	wg.Wait()

	var sb strings.Builder
	for _, snap := range snapshots {
		if snap == nil || (snap.Quote == nil && snap.Profile == nil && len(snap.News) == 0) {
			continue
		}

		sb.WriteString(snap.Ticker)
		if snap.Profile != nil {
			fmt.Fprintf(&sb, " (%s, %s, market cap $%.0fM)", snap.Profile.Name, snap.Profile.Industry, snap.Profile.MarketCap)
		}
		sb.WriteString(":\n")

		if snap.Quote != nil {
			fmt.Fprintf(&sb, "  price %.2f (%+.2f%%), prev close %.2f\n",
				snap.Quote.Current, snap.Quote.PercentChange, snap.Quote.PrevClose)
		}
		for _, n := range snap.News {
			fmt.Fprintf(&sb, "  news: %s (%s)\n", n.Headline, n.Source)
		}
	}

	return sb.String()
}

// getJSON performs a rate-limited GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	params.Set("token", c.apiKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
