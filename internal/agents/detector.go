// Package agents composes the external reasoning and data providers
// into the stage-facing adapters the pipeline consumes.
package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// LargeCapDenylist holds the mega-cap tickers excluded from trend
// detection regardless of what the upstream provider returns.
var LargeCapDenylist = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "TSLA", "META", "UNH", "JNJ",
}

// tickerPattern matches the accepted ticker shape after uppercasing.
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// TrendDetector chains the primary (real-time social data) and fallback
// (general reasoning) trend sources. The fallback is tried exactly once,
// when the primary fails or produces nothing usable. This fallback chain
// exists only for trend detection; other stages have a single provider.
type TrendDetector struct {
	primary  contracts.TrendDetector
	fallback contracts.TrendDetector
	logger   *logger.Logger
}

// NewTrendDetector creates a trend detector with a fallback chain.
func NewTrendDetector(primary, fallback contracts.TrendDetector, log *logger.Logger) *TrendDetector {
	return &TrendDetector{
		primary:  primary,
		fallback: fallback,
		logger:   log.WithField("module", "trend_detector"),
	}
}

// TrendingStocks returns trending tickers with the large-cap denylist
// applied. Tickers are uppercased; anything not shaped like a symbol is
// dropped.
func (d *TrendDetector) TrendingStocks(ctx context.Context) ([]contracts.TickerMention, error) {
	mentions, primaryErr := d.primary.TrendingStocks(ctx)
	if primaryErr == nil {
		if filtered := filterMentions(mentions); len(filtered) > 0 {
			return filtered, nil
		}
		primaryErr = fmt.Errorf("primary returned no usable tickers")
	}

	d.logger.WithError(primaryErr).Warn("primary trend source unavailable, falling back")

	mentions, fallbackErr := d.fallback.TrendingStocks(ctx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("trend detection failed: primary: %v; fallback: %v", primaryErr, fallbackErr)
	}

	filtered := filterMentions(mentions)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("trend detection failed: primary: %v; fallback returned no usable tickers", primaryErr)
	}

	return filtered, nil
}

// filterMentions normalizes tickers and drops denylisted or malformed
// symbols, preserving order.
func filterMentions(mentions []contracts.TickerMention) []contracts.TickerMention {
	out := make([]contracts.TickerMention, 0, len(mentions))
	for _, m := range mentions {
		ticker := strings.ToUpper(strings.TrimSpace(m.Ticker))
		if !tickerPattern.MatchString(ticker) || isDenylisted(ticker) {
			continue
		}
		out = append(out, contracts.TickerMention{Ticker: ticker, Reason: m.Reason})
	}
	return out
}

func isDenylisted(ticker string) bool {
	for _, denied := range LargeCapDenylist {
		if ticker == denied {
			return true
		}
	}
	return false
}
