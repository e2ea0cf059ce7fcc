package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/ndmitriev/coinwatch/internal/adapter"
	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/store"
)

type Services struct {
	AccountService AccountService
	MarketService  MarketService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, market adapter.MarketClient, cache *redis.Client, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AccountService: NewAccountService(storages.AccountRepository, cfg.App, logger),
		MarketService:  NewMarketService(market, cache, cfg.Cache, logger),
		AppInfoService: appInfoService,
	}, nil
}
