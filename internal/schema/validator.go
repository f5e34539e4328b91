// Package schema enforces the structured output contract on the advisor
// model's response.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

// The advisor is instructed to answer with a single JSON object holding
// either a "trades" array or an "error" string, never both. Anything
// else is rejected here; there is no best-effort scraping of free text.

// tradePayload mirrors one element of the "trades" array. Pointer
// fields distinguish a missing key from a zero value.
type tradePayload struct {
	Ticker   *string  `json:"ticker"`
	Strategy *string  `json:"strategy"`
	Legs     *string  `json:"legs"`
	Thesis   *string  `json:"thesis"`
	POP      *float64 `json:"pop"`
}

// RequiredTrades is the only accepted cardinality for a successful
// advisor response. Fewer valid trades means the whole run is rejected,
// never a partial list.
const RequiredTrades = 5

// Validate parses the raw advisor output and returns exactly five
// trades, or an error describing why the payload is unacceptable.
//
// Rules, in order:
//   - an "error" field with a non-empty string is returned verbatim
//   - a "trades" array must hold exactly five fully-typed objects
//   - everything else is an unexpected-format error
//
// Validate never panics on malformed input. Transport failures are the
// caller's concern; by the time text reaches here it is treated purely
// as a candidate payload.
func Validate(raw string) ([]contracts.Trade, error) {
	var payload struct {
		Trades json.RawMessage `json:"trades"`
		Error  string          `json:"error"`
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, contracts.NewValidationError("received an unexpected response format from the advisor model")
	}

	// Business-rule shortfalls arrive as a well-formed error string and
	// must surface unmodified.
	if payload.Error != "" {
		return nil, contracts.NewValidationError(payload.Error)
	}

	if len(payload.Trades) == 0 || string(payload.Trades) == "null" {
		return nil, contracts.NewValidationError("received an unexpected response format from the advisor model")
	}

	var trades []tradePayload
	if err := json.Unmarshal(payload.Trades, &trades); err != nil {
		return nil, contracts.NewValidationError("advisor trade list failed schema validation")
	}

	if len(trades) != RequiredTrades {
		return nil, contracts.NewValidationError(
			fmt.Sprintf("advisor returned %d trades, expected exactly %d", len(trades), RequiredTrades))
	}

	out := make([]contracts.Trade, 0, RequiredTrades)
	for i, t := range trades {
		if t.Ticker == nil || t.Strategy == nil || t.Legs == nil || t.Thesis == nil || t.POP == nil {
			return nil, contracts.NewValidationError(
				fmt.Sprintf("advisor trade %d is missing required fields", i+1))
		}
		out = append(out, contracts.Trade{
			Ticker:   *t.Ticker,
			Strategy: *t.Strategy,
			Legs:     *t.Legs,
			Thesis:   *t.Thesis,
			POP:      *t.POP,
		})
	}

	return out, nil
}
