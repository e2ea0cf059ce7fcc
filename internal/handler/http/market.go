package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

func (h *Handler) listCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := h.services.MarketService.ListCoins(r.Context())
	if err != nil {
		h.handleError(w, r, err, "coin listing failed")
		return
	}

	utils.WriteJSON(w, coins, http.StatusOK)
}

func (h *Handler) getCoin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	coin, found, err := h.services.MarketService.FindCoinByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "coin lookup failed")
		return
	}
	if !found {
		http.Error(w, "coin was not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, coin, http.StatusOK)
}

// searchCoin resolves ?name= or ?symbol= into a single coin.
// Exactly one of the two parameters must be supplied.
func (h *Handler) searchCoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("name")
	symbol := r.URL.Query().Get("symbol")

	var (
		coin  models.Coin
		found bool
		err   error
	)
	switch {
	case name != "" && symbol == "":
		coin, found, err = h.services.MarketService.FindCoinByName(ctx, name)
	case symbol != "" && name == "":
		coin, found, err = h.services.MarketService.FindCoinBySymbol(ctx, symbol)
	default:
		http.Error(w, "exactly one of `name` or `symbol` query parameters is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.handleError(w, r, err, "coin search failed")
		return
	}
	if !found {
		http.Error(w, "coin was not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, coin, http.StatusOK)
}
