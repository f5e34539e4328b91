// Package grok wraps the xAI chat completions API. Grok is the primary
// trend-detection source because it reasons over real-time X (Twitter)
// data.
package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/pkg/config"
	"github.com/EyalShechtman/AWSHackDay/pkg/httputil"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// Client handles communication with the xAI API
// SSOT: xAI calls happen only through this client
type Client struct {
	httpClient *httputil.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *logger.Logger
}

// NewClient creates a new xAI client. A missing API key is tolerated at
// construction; calls will report ErrProviderUnavailable so the caller
// can fall back.
func NewClient(cfg config.XAIConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		logger:     log.WithField("module", "grok"),
	}
}

const trendPrompt = `You are Grok, connected to real-time X (Twitter) data. Analyze the latest financial discussions on X and identify trending stocks with the following criteria:

FOCUS ON:
- Small to mid-cap stocks (market cap under $20B)
- Stocks with recent catalysts or news
- Genuine engagement and discussion (not pump schemes)
- Companies with fundamental potential
- Recent mentions in the last 24-48 hours

AVOID:
- Large cap mega stocks (AAPL, MSFT, GOOGL, AMZN, NVDA, TSLA, META, etc.)
- Obvious pump and dump schemes

Respond with a single JSON object of the form:
{"trending_stocks": [{"ticker": "SOFI", "reason": "why it is trending"}, ...]}

Return the top 15 tickers that meet the criteria. Do not include any text outside the JSON object.`

// chat completions request/response, OpenAI-compatible wire shape
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type trendPayload struct {
	TrendingStocks []contracts.TickerMention `json:"trending_stocks"`
}

// TrendingStocks asks Grok for the top 15 tickers trending on X.
func (c *Client) TrendingStocks(ctx context.Context) ([]contracts.TickerMention, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: XAI_API_KEY not set", contracts.ErrProviderUnavailable)
	}

	content, err := c.complete(ctx, trendPrompt)
	if err != nil {
		return nil, err
	}

	var payload trendPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: unparsable trend payload: %v", contracts.ErrProviderRequestFailed, err)
	}

	c.logger.WithField("ticker_count", len(payload.TrendingStocks)).Info("Grok trend scan completed")

	return payload.TrendingStocks, nil
}

// complete runs a single chat completion and returns the message text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contracts.ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: unexpected status %d: %s", contracts.ErrProviderRequestFailed, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", contracts.ErrProviderRequestFailed, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", contracts.ErrProviderRequestFailed)
	}

	return parsed.Choices[0].Message.Content, nil
}
