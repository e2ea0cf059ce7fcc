package http

import (
	"context"

	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/service"
)

// Pinger reports storage liveness; satisfied by *store.Storages.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *service.Services
	pinger   Pinger

	logger *logger.Logger
}

func NewHandler(services *service.Services, pinger Pinger, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		pinger:   pinger,
		logger:   logger,
	}
}
