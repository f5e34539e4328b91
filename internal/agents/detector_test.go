package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

type stubTrendSource struct {
	mentions []contracts.TickerMention
	err      error
	calls    int
}

func (s *stubTrendSource) TrendingStocks(ctx context.Context) ([]contracts.TickerMention, error) {
	s.calls++
	return s.mentions, s.err
}

func TestTrendingStocksPrimarySucceeds(t *testing.T) {
	primary := &stubTrendSource{mentions: []contracts.TickerMention{
		{Ticker: "pltr", Reason: "retail chatter"},
		{Ticker: " sofi ", Reason: "earnings buzz"},
	}}
	fallback := &stubTrendSource{}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []contracts.TickerMention{
		{Ticker: "PLTR", Reason: "retail chatter"},
		{Ticker: "SOFI", Reason: "earnings buzz"},
	}, got)
	assert.Zero(t, fallback.calls)
}

func TestTrendingStocksDenylist(t *testing.T) {
	primary := &stubTrendSource{mentions: []contracts.TickerMention{
		{Ticker: "AAPL"},
		{Ticker: "PLTR"},
		{Ticker: "NVDA"},
		{Ticker: "TSLA"},
		{Ticker: "HOOD"},
	}}

	d := NewTrendDetector(primary, &stubTrendSource{}, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "PLTR", got[0].Ticker)
	assert.Equal(t, "HOOD", got[1].Ticker)
}

func TestTrendingStocksDropsMalformedSymbols(t *testing.T) {
	primary := &stubTrendSource{mentions: []contracts.TickerMention{
		{Ticker: "TOOLONGG"},
		{Ticker: "BRK.B"},
		{Ticker: ""},
		{Ticker: "12AB"},
		{Ticker: "u"},
	}}
	fallback := &stubTrendSource{mentions: []contracts.TickerMention{{Ticker: "SNOW"}}}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.NoError(t, err)

	// "u" uppercases to a valid symbol; the rest are dropped, so the
	// primary result is still usable and the fallback stays untouched
	require.Len(t, got, 1)
	assert.Equal(t, "U", got[0].Ticker)
	assert.Zero(t, fallback.calls)
}

func TestTrendingStocksFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubTrendSource{err: errors.New("xai quota exceeded")}
	fallback := &stubTrendSource{mentions: []contracts.TickerMention{{Ticker: "RBLX"}}}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "RBLX", got[0].Ticker)
	assert.Equal(t, 1, fallback.calls)
}

func TestTrendingStocksFallsBackOnEmptyPrimary(t *testing.T) {
	// everything the primary returned is denylisted
	primary := &stubTrendSource{mentions: []contracts.TickerMention{
		{Ticker: "AAPL"}, {Ticker: "MSFT"},
	}}
	fallback := &stubTrendSource{mentions: []contracts.TickerMention{{Ticker: "CRWD"}}}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CRWD", got[0].Ticker)
}

func TestTrendingStocksBothSourcesFail(t *testing.T) {
	primary := &stubTrendSource{err: errors.New("primary down")}
	fallback := &stubTrendSource{err: errors.New("fallback down")}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	got, err := d.TrendingStocks(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "fallback down")

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestTrendingStocksFallbackTriedOnce(t *testing.T) {
	primary := &stubTrendSource{err: errors.New("primary down")}
	fallback := &stubTrendSource{mentions: []contracts.TickerMention{{Ticker: "AAPL"}}}

	d := NewTrendDetector(primary, fallback, logger.NewNop())

	_, err := d.TrendingStocks(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, fallback.calls)
}
