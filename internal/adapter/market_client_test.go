package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
)

func newTestMarketClient(t *testing.T, baseURL string) MarketClient {
	t.Helper()
	client, err := NewMarketClient(config.Market{
		BaseURL:        baseURL,
		Currency:       "usd",
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return client
}

func TestNewMarketClient_InvalidBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "empty", baseURL: ""},
		{name: "blank", baseURL: "   "},
		{name: "scheme only", baseURL: "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMarketClient(config.Market{BaseURL: tt.baseURL}, logger.Nop())
			assert.Error(t, err)
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "full url kept", in: "https://api.example.com/api/v3", want: "https://api.example.com/api/v3"},
		{name: "trailing slash trimmed", in: "https://api.example.com/api/v3/", want: "https://api.example.com/api/v3"},
		{name: "scheme defaulted", in: "api.example.com", want: "https://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCoins_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "test-key", r.Header.Get("x-cg-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.5,"market_cap":1260000000000,"price_change_24h":-150.25,"last_updated":"2024-05-01T12:00:00Z"},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3100.1,"market_cap":372000000000,"price_change_24h":42.7,"last_updated":"2024-05-01T12:00:00Z"}
		]`))
	}))
	defer srv.Close()

	client := newTestMarketClient(t, srv.URL)

	coins, err := client.ListCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)

	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "btc", coins[0].Symbol)
	assert.Equal(t, 64000.5, coins[0].CurrentPrice)
	assert.Equal(t, "Ethereum", coins[1].Name)
}

func TestListCoins_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestMarketClient(t, srv.URL)

	_, err := client.ListCoins(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestListCoins_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestMarketClient(t, srv.URL)

	_, err := client.ListCoins(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestListCoins_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	client := newTestMarketClient(t, srv.URL)

	_, err := client.ListCoins(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
}

func TestListCoins_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := newTestMarketClient(t, srv.URL)

	_, err := client.ListCoins(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestListCoins_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := newTestMarketClient(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListCoins(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable) || errors.Is(err, context.DeadlineExceeded))
}
