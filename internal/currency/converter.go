package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const targetCurrency = "USD"

// fallbackMultiplier is applied when the rate lookup fails for any reason.
var fallbackMultiplier = decimal.RequireFromString("0.8")

type Config struct {
	BaseURL           string
	APIKey            string
	BaseCurrency      string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// rateResponse is the rate service payload: {"data": {"USD": 0.73, ...}}.
type rateResponse struct {
	Data map[string]decimal.Decimal `json:"data"`
}

// Converter turns store prices into USD using a live rate per call.
type Converter struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	baseCurrency string
	limiter      *rate.Limiter
	logger       *slog.Logger
}

func NewConverter(cfg Config, logger *slog.Logger) *Converter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Converter{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		baseCurrency: strings.ToUpper(cfg.BaseCurrency),
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger.With("component", "currency"),
	}
}

// ToUSD converts amount to USD rounded to two decimals. The base currency is
// returned unchanged. Lookup failures fall back to amount*0.8; this never
// fails.
func (c *Converter) ToUSD(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == c.baseCurrency {
		return amount
	}

	r, err := c.lookupRate(ctx, currency)
	if err != nil {
		c.logger.Warn("exchange rate lookup failed, using fallback",
			"currency", currency,
			"fallback", fallbackMultiplier.String(),
			"error", err,
		)
		return amount.Mul(fallbackMultiplier).Round(2)
	}

	return amount.Mul(r).Round(2)
}

func (c *Converter) lookupRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("wait for rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("base_currency", currency)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode response: %w", err)
	}

	r, ok := body.Data[targetCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate for %s", targetCurrency, currency)
	}
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid %s rate %s for %s", targetCurrency, r, currency)
	}

	return r, nil
}
