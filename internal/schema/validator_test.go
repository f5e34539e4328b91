package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

func validTradesPayload(t *testing.T, n int) string {
	t.Helper()

	trades := make([]map[string]interface{}, 0, n)
	tickers := []string{"PLTR", "SOFI", "RBLX", "SNOW", "CRWD", "HOOD", "U"}
	for i := 0; i < n; i++ {
		trades = append(trades, map[string]interface{}{
			"ticker":   tickers[i%len(tickers)],
			"strategy": "Bull Put Spread",
			"legs":     "Sell 25P / Buy 22P",
			"thesis":   "Strong momentum with improving fundamentals.",
			"pop":      0.72,
		})
	}

	raw, err := json.Marshal(map[string]interface{}{"trades": trades})
	require.NoError(t, err)
	return string(raw)
}

func TestValidateFiveTrades(t *testing.T) {
	trades, err := Validate(validTradesPayload(t, 5))
	require.NoError(t, err)
	require.Len(t, trades, RequiredTrades)

	assert.Equal(t, "PLTR", trades[0].Ticker)
	assert.Equal(t, "Bull Put Spread", trades[0].Strategy)
	assert.Equal(t, "Sell 25P / Buy 22P", trades[0].Legs)
	assert.InDelta(t, 0.72, trades[0].POP, 1e-9)
}

func TestValidateErrorPassthrough(t *testing.T) {
	// A business-rule shortfall must surface verbatim
	msg := "Fewer than 5 trades meet criteria, do not execute."
	trades, err := Validate(`{"error":"` + msg + `"}`)

	require.Error(t, err)
	assert.Nil(t, trades)
	assert.Equal(t, msg, err.Error())

	var verr *contracts.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestValidateCardinality(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"four trades", 4},
		{"six trades", 6},
		{"zero trades", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades, err := Validate(validTradesPayload(t, tt.count))
			require.Error(t, err)
			// never a partial list
			assert.Nil(t, trades)
		})
	}
}

func TestValidateMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the model apologizes and explains"},
		{"empty string", ""},
		{"empty object", "{}"},
		{"null trades", `{"trades": null}`},
		{"trades not array", `{"trades": "PLTR,SOFI"}`},
		{"wrong field type", `{"trades":[{"ticker":"PLTR","strategy":"x","legs":"y","thesis":"z","pop":"high"},{},{},{},{}]}`},
		{"missing field", `{"trades":[{"ticker":"PLTR","strategy":"x","legs":"y","pop":0.7},{"ticker":"A","strategy":"s","legs":"l","thesis":"t","pop":0.7},{"ticker":"B","strategy":"s","legs":"l","thesis":"t","pop":0.7},{"ticker":"C","strategy":"s","legs":"l","thesis":"t","pop":0.7},{"ticker":"D","strategy":"s","legs":"l","thesis":"t","pop":0.7}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades, err := Validate(tt.raw)
			require.Error(t, err)
			assert.Nil(t, trades)

			var verr *contracts.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateNeverPanics(t *testing.T) {
	inputs := []string{
		`{"trades":`,
		`[]`,
		`123`,
		"\x00\x01",
		`{"trades":[1,2,3,4,5]}`,
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			_, _ = Validate(raw)
		})
	}
}
