package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

const (
	defaultCurrency       = "usd"
	defaultMarketTimeout  = 15 * time.Second
	marketsEndpoint       = "/coins/markets"
	providerAPIKeyHeader  = "x-cg-api-key"
	acceptJSONHeaderValue = "application/json"
)

// marketHTTPClient is the REST implementation of [MarketClient] backed by a
// resty HTTP client.
type marketHTTPClient struct {
	client   *utils.HTTPClient
	currency string
	apiKey   string

	logger *logger.Logger
}

// NewMarketClient constructs an HTTP/REST implementation of [MarketClient].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying HTTP client with the resolved base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewMarketClient(cfg config.Market, logger *logger.Logger) (MarketClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid market provider base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultMarketTimeout
	}

	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &marketHTTPClient{
		client:   client,
		currency: currency,
		apiKey:   cfg.APIKey,
		logger:   logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ListCoins implements [MarketClient]. It GETs the provider's market
// listing for the configured fiat currency and decodes the response into
// [models.Coin] records.
//
// Returns [ErrRateLimited] on 429 and [ErrProviderUnavailable] wrapped with
// detail for any other non-2xx status or transport failure.
func (m *marketHTTPClient) ListCoins(ctx context.Context) ([]models.Coin, error) {
	resp, err := m.request(ctx).
		SetQueryParam("vs_currency", m.currency).
		Get(marketsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: list coins request: %w", ErrProviderUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var coins []models.Coin
	if err = json.Unmarshal(resp.Body(), &coins); err != nil {
		return nil, fmt.Errorf("decode market listing response: %w", err)
	}

	return coins, nil
}

func (m *marketHTTPClient) request(ctx context.Context) *resty.Request {
	req := m.client.R().
		SetContext(ctx).
		SetHeader("Accept", acceptJSONHeaderValue)
	if m.apiKey != "" {
		req.SetHeader(providerAPIKeyHeader, m.apiKey)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrProviderUnavailable, resp.StatusCode(), body)
}
