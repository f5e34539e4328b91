// Package gemini wraps the Google Gemini API for the reasoning stages
// of the investment pipeline.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/pkg/config"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// Client handles communication with the Gemini API
// SSOT: Gemini calls happen only through this client
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewClient creates a new Gemini client from config.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", contracts.ErrProviderUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"model":   cfg.Model,
		"timeout": cfg.Timeout,
	}).Info("Gemini client initialized")

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  log.WithField("module", "gemini"),
	}, nil
}

const trendPrompt = `You are a specialized AI agent analyzing recent social media activity for stock trends. Focus on LESSER-KNOWN stocks with recent catalysts, NOT mega-cap stocks like AAPL, MSFT, GOOGL, AMZN, NVDA, TSLA, or META.

Target criteria:
- Market cap under $20B (small to mid-cap)
- Recent catalysts: earnings beats, contract wins, regulatory approvals, partnerships
- Genuine community discussion (not pump schemes)
- Stocks showing momentum but not yet mainstream attention

Exclude large-cap stocks. Focus on hidden gems with fundamental potential.
Provide 5-8 tickers as a comma-separated string. Example: PLTR,SOFI,RBLX,SNOW,CRWD`

// TrendingStocks simulates a social media scan with Gemini. This is the
// fallback trend source; cardinality is lower than the Grok primary.
func (c *Client) TrendingStocks(ctx context.Context) ([]contracts.TickerMention, error) {
	text, err := c.generate(ctx, trendPrompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.7)),
	})
	if err != nil {
		return nil, fmt.Errorf("trend simulation: %w", err)
	}

	var mentions []contracts.TickerMention
	for _, raw := range strings.Split(text, ",") {
		ticker := strings.TrimSpace(raw)
		if ticker == "" {
			continue
		}
		mentions = append(mentions, contracts.TickerMention{
			Ticker: ticker,
			Reason: "simulated social media scan",
		})
	}

	return mentions, nil
}

// FinancialSummary gathers financial data for the tickers using search
// grounding and returns the summary with its grounding citations.
func (c *Client) FinancialSummary(ctx context.Context, tickers []string) (*contracts.SummaryResult, error) {
	return c.FinancialSummaryWithData(ctx, tickers, "")
}

// FinancialSummaryWithData is FinancialSummary with an optional block of
// pre-fetched market data mixed into the prompt. The data block is
// best-effort enrichment; an empty string is fine.
func (c *Client) FinancialSummaryWithData(ctx context.Context, tickers []string, marketData string) (*contracts.SummaryResult, error) {
	prompt := fmt.Sprintf(`Using your search tool, find the latest key financial data points and news for the following stock tickers: %s. For each ticker, provide a concise summary including EPS, Revenue, P/E ratio, and a summary of the most recent (last 7 days) news sentiment (positive, neutral, or negative). Present it as a well-formatted block of text with each ticker clearly separated.`, strings.Join(tickers, ", "))

	if marketData != "" {
		prompt = fmt.Sprintf("%s\n\nUse the following live market data where it is relevant:\n%s", prompt, marketData)
	}

	searchTool := &genai.Tool{GoogleSearch: &genai.GoogleSearch{}}
	cfg := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{searchTool},
		Temperature: genai.Ptr(float32(0.3)),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(timeoutCtx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: financial summary: %v", contracts.ErrProviderRequestFailed, err)
	}

	result := &contracts.SummaryResult{}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		result.Summary = sb.String()

		// Grounding chunks carry the web sources backing the summary
		if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
			for _, chunk := range gm.GroundingChunks {
				if chunk.Web != nil && chunk.Web.URI != "" {
					result.Sources = append(result.Sources, contracts.Citation{
						URI:   chunk.Web.URI,
						Title: chunk.Web.Title,
					})
				}
			}
		}
	}

	if result.Summary == "" {
		return nil, fmt.Errorf("%w: financial summary returned no text", contracts.ErrProviderRequestFailed)
	}

	return result, nil
}

// InvestmentCandidates narrows the summarized tickers to the most
// promising five, returned as a comma-separated string.
func (c *Client) InvestmentCandidates(ctx context.Context, summary string) (string, error) {
	prompt := fmt.Sprintf("Given the following financial data summaries:\n\n%s\n\nAnalyze this information and select the top 5 most promising investment candidates based on a balance of strong fundamentals and positive sentiment. List only their tickers, as a single comma-separated string.", summary)

	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	})
	if err != nil {
		return "", fmt.Errorf("candidate selection: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// analystRubric is the fixed trade-selection rubric handed to the
// advisor model alongside the user's own strategy text.
const analystRubric = `
You are an elite AI financial analyst. Your task is to analyze a list of stock candidates and select the best investment opportunities based on a user's strategy and a strict set of criteria.

Data Categories for Analysis:
- Fundamental Data: EPS, Revenue, P/E, P/S, Margins, FCF Yield, Insider Transactions.
- Options Chain Data: Implied Volatility (IV), Open Interest, Volume, IV Rank.
- Price & Volume Data: OHLCV, Historical Volatility, Moving Averages (50/100/200-day), RSI, MACD, VWAP.
- Alternative Data: Social Sentiment (Twitter/X, Reddit), News event detection.

Trade Selection Criteria:
- Number of Trades: Exactly 5
- Goal: Maximize edge while maintaining portfolio diversification and risk limits.
- Hard Filters (discard trades not meeting these):
  - Quote age <= 10 minutes (Assume all provided data is live)
  - Top option Probability of Profit (POP) >= 0.65
  - Top option credit / max loss ratio >= 0.33
  - Top option max loss <= 0.5% of $100,000 NAV (<= $500)
- Selection Rules:
  - Rank trades by a composite model_score you generate.
  - Ensure diversification: maximum of 2 trades per GICS sector.
  - In case of ties, prefer higher momentum and positive sentiment scores.
`

// FinalTrades asks the advisor model for trade recommendations under
// both the fixed rubric and the user strategy. The response is
// schema-constrained JSON; the raw payload is returned for validation
// by the caller.
func (c *Client) FinalTrades(ctx context.Context, candidates string, strategy string) (string, error) {
	prompt := fmt.Sprintf(`%s

**User's Custom Strategy Directive:**
%s

**Investment Candidates to Analyze:**
Analyze the following candidate stocks: %s.

**Output Format:**
Provide your output strictly as a single JSON object. The object can contain one of two keys: "trades" or "error".
- If you find 5 trades that meet all criteria, the key should be "trades", and its value should be an array of 5 trade objects. Each trade object must have keys: "ticker", "strategy", "legs", "thesis" (string, max 30 words), and "pop" (number).
- If fewer than 5 trades satisfy all criteria, the key should be "error", and its value should be a string explaining why (e.g., "Fewer than 5 trades meet criteria, do not execute.").
Do not include any other text, explanations, or markdown formatting outside of the single, valid JSON object.`,
		analystRubric, strategy, candidates)

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   advisorResponseSchema(),
	}

	text, err := c.generate(ctx, prompt, cfg)
	if err != nil {
		return "", fmt.Errorf("advisor generation: %w", err)
	}

	return text, nil
}

// advisorResponseSchema constrains the advisor output to the
// trades-or-error contract so no free text needs scraping downstream.
func advisorResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"trades": {
				Type:        genai.TypeArray,
				Nullable:    genai.Ptr(true),
				Description: "The list of recommended trades.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker":   {Type: genai.TypeString},
						"strategy": {Type: genai.TypeString},
						"legs":     {Type: genai.TypeString},
						"thesis":   {Type: genai.TypeString, Description: "A concise thesis, max 30 words."},
						"pop":      {Type: genai.TypeNumber, Description: "Probability of Profit"},
					},
					Required: []string{"ticker", "strategy", "legs", "thesis", "pop"},
				},
			},
			"error": {
				Type:        genai.TypeString,
				Nullable:    genai.Ptr(true),
				Description: "An error message if no suitable trades are found.",
			},
		},
	}
}

// generate runs a single-prompt completion and returns the response
// text. Iterates candidates until non-empty text is found.
func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()

	resp, err := c.client.Models.GenerateContent(timeoutCtx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contracts.ErrProviderRequestFailed, err)
	}

	var response strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				response.WriteString(part.Text)
			}
		}
		if response.Len() > 0 {
			break
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("%w: no response generated", contracts.ErrProviderRequestFailed)
	}

	c.logger.WithFields(map[string]interface{}{
		"prompt_length":   len(prompt),
		"response_length": response.Len(),
		"duration":        time.Since(startTime),
	}).Debug("Gemini completion finished")

	return response.String(), nil
}
