// Package adapter contains clients for external collaborators.
// Its single implementation today is the REST client for the third-party
// cryptocurrency market-data provider.
package adapter

import (
	"context"

	"github.com/ndmitriev/coinwatch/models"
)

// MarketClient is the outbound contract to the market-data provider.
// ListCoins returns the full quote snapshot for the configured fiat
// currency; all narrower lookups are derived from it by the service layer.
type MarketClient interface {
	ListCoins(ctx context.Context) ([]models.Coin, error)
}
