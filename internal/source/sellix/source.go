package sellix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront_bot/internal/domain"
)

const (
	SourceID   = "sellix"
	SourceName = "Sellix Storefront"

	productsPath = "/v1/products"
)

// Config holds Sellix source configuration.
type Config struct {
	Timeout time.Duration
}

// Source fetches product catalogs from a Sellix storefront. Store URL and API
// key are per call since each context brings its own store.
type Source struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new Sellix source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// FetchProducts fetches the full product list of the store at storeURL.
// Errors wrap domain.ErrRemoteUnavailable, domain.ErrUnauthorized or
// domain.ErrMalformedResponse.
func (s *Source) FetchProducts(ctx context.Context, storeURL, apiKey string) ([]domain.Product, error) {
	url := strings.TrimRight(storeURL, "/") + productsPath

	resp, err := s.doRequest(ctx, url, apiKey)
	if err != nil {
		return nil, err
	}

	products, err := s.transform(resp)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched products", "store_url", storeURL, "count", len(products))

	return products, nil
}

func (s *Source) doRequest(ctx context.Context, url, apiKey string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid store url: %w: %w", domain.ErrNotConfigured, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "StorefrontBot/1.0")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, domain.ErrRemoteUnavailable)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("read response: %w: %w", domain.ErrRemoteUnavailable, err)
		}
		return nil, fmt.Errorf("decode response: %w: %w", domain.ErrMalformedResponse, err)
	}

	return &apiResp, nil
}

func (s *Source) transform(resp *APIResponse) ([]domain.Product, error) {
	if resp.Data == nil || resp.Data.Products == nil {
		return nil, fmt.Errorf("missing data.products: %w", domain.ErrMalformedResponse)
	}

	products := make([]domain.Product, 0, len(resp.Data.Products))
	seen := make(map[string]struct{}, len(resp.Data.Products))

	for i, p := range resp.Data.Products {
		if p.UniqID == "" {
			return nil, fmt.Errorf("product %d has no uniqid: %w", i, domain.ErrMalformedResponse)
		}
		if p.Price == nil {
			return nil, fmt.Errorf("product %s has no price: %w", p.UniqID, domain.ErrMalformedResponse)
		}
		if _, dup := seen[p.UniqID]; dup {
			return nil, fmt.Errorf("duplicate uniqid %s: %w", p.UniqID, domain.ErrMalformedResponse)
		}
		seen[p.UniqID] = struct{}{}

		products = append(products, domain.Product{
			Title:    p.Title,
			UniqueID: p.UniqID,
			Price:    *p.Price,
			Currency: strings.ToUpper(strings.TrimSpace(p.Currency)),
		})
	}

	return products, nil
}
