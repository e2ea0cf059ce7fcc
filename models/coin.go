package models

import "time"

// Coin is one cryptocurrency record as reported by the external
// market-data provider. Field names mirror the provider's JSON so the
// record can be decoded straight from its response body.
type Coin struct {
	// ID is the provider-assigned identifier (e.g. "bitcoin").
	ID string `json:"id"`

	// Symbol is the ticker symbol (e.g. "btc").
	Symbol string `json:"symbol"`

	// Name is the human-readable coin name (e.g. "Bitcoin").
	Name string `json:"name"`

	// CurrentPrice is the latest price in the requested fiat currency.
	CurrentPrice float64 `json:"current_price"`

	// MarketCap is the total market capitalization.
	MarketCap float64 `json:"market_cap"`

	// PriceChange24h is the absolute price change over the last 24 hours.
	PriceChange24h float64 `json:"price_change_24h"`

	// LastUpdated is the provider-side timestamp of the quote.
	LastUpdated time.Time `json:"last_updated"`
}
