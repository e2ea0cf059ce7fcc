package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ndmitriev/coinwatch/internal/adapter"
	"github.com/ndmitriev/coinwatch/internal/config"
	myHTTP "github.com/ndmitriev/coinwatch/internal/handler/http"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/server"
	"github.com/ndmitriev/coinwatch/internal/service"
	"github.com/ndmitriev/coinwatch/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("coinwatch-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	marketClient, err := adapter.NewMarketClient(cfg.Market, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating market data client")
	}

	cache := newCacheClient(ctx, cfg.Cache, log)
	if cache != nil {
		defer cache.Close()
	}

	services, err := service.NewServices(storages, marketClient, cache, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handler := myHTTP.NewHandler(services, storages, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newCacheClient connects to Redis when an address is configured.
// A missing address or a failed ping disables caching; the application
// still runs, every market lookup just goes straight to the provider.
func newCacheClient(ctx context.Context, cfg config.Cache, log *logger.Logger) *redis.Client {
	if cfg.RedisAddress == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis is unreachable, market cache disabled")
		client.Close()
		return nil
	}

	log.Info().Str("address", cfg.RedisAddress).Msg("market cache connected")
	return client
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
