package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ndmitriev/coinwatch/internal/adapter"
	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/models"
)

const (
	// marketSnapshotKey is the Redis key holding the JSON-encoded listing
	// most recently fetched from the provider.
	marketSnapshotKey = "market:coins:snapshot"

	defaultSnapshotTTL = 30 * time.Second
)

// marketService is the concrete implementation of MarketService.
// Every lookup is answered from a full provider snapshot; when Redis is
// configured the snapshot is cached for a short TTL so bursts of requests
// do not hammer the provider's rate limit.
type marketService struct {
	client adapter.MarketClient

	// cache is optional. A nil client disables caching entirely and every
	// call goes straight to the provider.
	cache *redis.Client
	ttl   time.Duration

	logger *logger.Logger
}

// NewMarketService constructs a MarketService over the given provider
// client. Pass a nil cache to disable snapshot caching.
func NewMarketService(client adapter.MarketClient, cache *redis.Client, cfg config.Cache, logger *logger.Logger) MarketService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}

	return &marketService{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// ListCoins returns the current market listing.
//
// A fresh cached snapshot is served without contacting the provider.
// On a cache miss the provider is queried and the result is stored back
// under [marketSnapshotKey]; cache failures are logged and never fail the
// request. Provider failures surface as adapter.ErrRateLimited or
// adapter.ErrProviderUnavailable.
func (m *marketService) ListCoins(ctx context.Context) ([]models.Coin, error) {
	log := logger.FromContext(ctx)

	if coins, ok := m.cachedSnapshot(ctx); ok {
		return coins, nil
	}

	coins, err := m.client.ListCoins(ctx)
	if err != nil {
		log.Err(err).Msg("market listing fetch failed")
		return nil, err
	}

	m.storeSnapshot(ctx, coins)
	return coins, nil
}

func (m *marketService) cachedSnapshot(ctx context.Context) ([]models.Coin, bool) {
	if m.cache == nil {
		return nil, false
	}
	log := logger.FromContext(ctx)

	payload, err := m.cache.Get(ctx, marketSnapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("market snapshot cache read failed")
		}
		return nil, false
	}

	var coins []models.Coin
	if err := json.Unmarshal(payload, &coins); err != nil {
		log.Warn().Err(err).Msg("malformed market snapshot in cache")
		return nil, false
	}

	return coins, true
}

func (m *marketService) storeSnapshot(ctx context.Context, coins []models.Coin) {
	if m.cache == nil {
		return
	}
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(coins)
	if err != nil {
		log.Warn().Err(err).Msg("market snapshot encoding failed")
		return
	}
	if err := m.cache.Set(ctx, marketSnapshotKey, payload, m.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("market snapshot cache write failed")
	}
}

// FindCoinByID looks up a coin by the provider-assigned identifier.
// Absence is reported as (zero, false, nil), never as an error.
func (m *marketService) FindCoinByID(ctx context.Context, id string) (models.Coin, bool, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return models.Coin{}, false, ErrInvalidDataProvided
	}
	return m.findCoin(ctx, func(c models.Coin) bool { return c.ID == id })
}

// FindCoinByName looks up a coin by its human-readable name,
// case-insensitively. Absence is reported as (zero, false, nil).
func (m *marketService) FindCoinByName(ctx context.Context, name string) (models.Coin, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Coin{}, false, ErrInvalidDataProvided
	}
	return m.findCoin(ctx, func(c models.Coin) bool { return strings.EqualFold(c.Name, name) })
}

// FindCoinBySymbol looks up a coin by its ticker symbol,
// case-insensitively. Absence is reported as (zero, false, nil).
func (m *marketService) FindCoinBySymbol(ctx context.Context, symbol string) (models.Coin, bool, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.Coin{}, false, ErrInvalidDataProvided
	}
	return m.findCoin(ctx, func(c models.Coin) bool { return strings.ToLower(c.Symbol) == symbol })
}

func (m *marketService) findCoin(ctx context.Context, match func(models.Coin) bool) (models.Coin, bool, error) {
	coins, err := m.ListCoins(ctx)
	if err != nil {
		return models.Coin{}, false, err
	}

	for _, coin := range coins {
		if match(coin) {
			return coin, true, nil
		}
	}

	return models.Coin{}, false, nil
}
